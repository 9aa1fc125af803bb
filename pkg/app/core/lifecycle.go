package core

import (
	"fmt"
	"time"
)

// History descriptions.
const (
	DescCreated   = "order created"
	DescExecuted  = "order fully executed"
	DescCancelled = "order cancelled by user"
)

func descPartial(qty int64) string {
	return fmt.Sprintf("order partially executed (%d units)", qty)
}

// NewOrder builds an Open order with its creation entry. The request is
// assumed to be validated already.
func NewOrder(id string, seq uint64, req OrderRequest, at time.Time) Order {
	return Order{
		ID:         id,
		Instrument: req.Instrument,
		Side:       req.Side,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Remaining:  req.Quantity,
		Status:     Open,
		CreatedAt:  at,
		Seq:        seq,
		History: []HistoryEntry{
			{Timestamp: at, Status: Open, Description: DescCreated},
		},
	}
}

// ApplyFill executes qty units of o and appends one history entry.
// The order ends Executed when nothing remains. Otherwise it is Partial
// and the entry notes described units: the step quantity for a resting
// order, the cumulative quantity for the incoming one.
func (o *Order) ApplyFill(qty, described int64, at time.Time) error {
	if !o.Status.Resting() {
		return fmt.Errorf("fill %s: status %s is not fillable", o.ID, o.Status)
	}
	if qty <= 0 || qty > o.Remaining {
		return fmt.Errorf("fill %s: quantity %d outside (0, %d]", o.ID, qty, o.Remaining)
	}
	o.Remaining -= qty
	if o.Remaining == 0 {
		o.append(Executed, DescExecuted, at)
		return nil
	}
	o.append(Partial, descPartial(described), at)
	return nil
}

// Cancel moves a resting order to Cancelled. Remaining quantity is kept
// as is: cancelling stops matching, it does not undo executed quantity.
func (o *Order) Cancel(at time.Time) error {
	if !o.Status.Resting() {
		return &NotCancellableError{ID: o.ID, Status: o.Status}
	}
	o.append(Cancelled, DescCancelled, at)
	return nil
}

func (o *Order) append(status Status, desc string, at time.Time) {
	o.Status = status
	o.History = append(o.History, HistoryEntry{Timestamp: at, Status: status, Description: desc})
}

// CheckInvariants verifies the quantity/status/history rules every order
// must satisfy at all times.
func (o *Order) CheckInvariants() error {
	if o.Remaining < 0 || o.Remaining > o.Quantity {
		return fmt.Errorf("order %s: remaining %d outside [0, %d]", o.ID, o.Remaining, o.Quantity)
	}
	switch o.Status {
	case Open:
		if o.Remaining != o.Quantity {
			return fmt.Errorf("order %s: open with %d of %d remaining", o.ID, o.Remaining, o.Quantity)
		}
	case Partial:
		if o.Remaining == 0 || o.Remaining == o.Quantity {
			return fmt.Errorf("order %s: partial with %d of %d remaining", o.ID, o.Remaining, o.Quantity)
		}
	case Executed:
		if o.Remaining != 0 {
			return fmt.Errorf("order %s: executed with %d remaining", o.ID, o.Remaining)
		}
	case Cancelled:
	default:
		return fmt.Errorf("order %s: unknown status %d", o.ID, o.Status)
	}
	if len(o.History) == 0 {
		return fmt.Errorf("order %s: empty history", o.ID)
	}
	if last := o.History[len(o.History)-1]; last.Status != o.Status {
		return fmt.Errorf("order %s: last history status %s != %s", o.ID, last.Status, o.Status)
	}
	return nil
}
