// Package matching settles crosses between a newly inserted limit order
// and the resting orders of the same instrument, in price-time priority.
//
// The engine keeps no order state of its own. It reads and mutates a Book,
// which in production is the store transaction of the create operation, so
// a whole matching pass is applied as one batch.
package matching

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
	"github.com/uhyunpark/orderdesk/pkg/util"
)

// Book is the order state a matching pass runs against.
type Book interface {
	Get(id string) (core.Order, bool)
	Scan(fn func(core.Order) bool)
	Update(id string, fn func(*core.Order) error) (core.Order, error)
}

// Result describes one matching pass.
type Result struct {
	Taker  core.Order   // incoming order after the pass
	Makers []core.Order // resting orders touched, in fill order
	Fills  []core.Fill
}

// Filled returns the quantity the incoming order executed in this pass.
func (r Result) Filled() int64 {
	var n int64
	for _, f := range r.Fills {
		n += f.Qty
	}
	return n
}

type Engine struct {
	clock  util.Clock
	fillID func() string
}

func NewEngine(clock util.Clock) *Engine {
	if clock == nil {
		clock = util.RealClock{}
	}
	return &Engine{clock: clock, fillID: uuid.NewString}
}

// Crosses reports whether resting is an eligible counter-order for taker.
// An order never crosses itself.
func Crosses(taker, resting *core.Order) bool {
	if resting.ID == taker.ID ||
		resting.Instrument != taker.Instrument ||
		resting.Side != taker.Side.Opposite() ||
		!resting.Status.Resting() {
		return false
	}
	if taker.Side == core.Buy {
		return resting.Price.LessThanOrEqual(taker.Price)
	}
	return resting.Price.GreaterThanOrEqual(taker.Price)
}

// Candidates returns the eligible counter-orders for taker in the order
// they would be consumed.
func Candidates(book Book, taker *core.Order) []core.Order {
	q := collect(book, taker)
	out := make([]core.Order, 0, q.Len())
	for q.Len() > 0 {
		out = append(out, q.next())
	}
	return out
}

func collect(book Book, taker *core.Order) *candidateQueue {
	var eligible []core.Order
	book.Scan(func(o core.Order) bool {
		if Crosses(taker, &o) {
			eligible = append(eligible, o)
		}
		return true
	})
	return newCandidateQueue(taker.Side, eligible)
}

// Match runs one matching pass for the order takerID, which must already
// be in book. Every fill executes at the resting order's price.
func (e *Engine) Match(book Book, takerID string) (Result, error) {
	taker, ok := book.Get(takerID)
	if !ok {
		return Result{}, &core.NotFoundError{ID: takerID}
	}
	res := Result{Taker: taker}
	if !taker.Status.Resting() {
		return res, nil
	}

	q := collect(book, &taker)
	remaining := taker.Remaining
	for remaining > 0 && q.Len() > 0 {
		maker := q.next()
		qty := min(remaining, maker.Remaining)
		at := e.clock.Now()

		updated, err := book.Update(maker.ID, func(o *core.Order) error {
			return o.ApplyFill(qty, qty, at)
		})
		if err != nil {
			return res, fmt.Errorf("fill resting order %s: %w", maker.ID, err)
		}
		remaining -= qty

		res.Makers = append(res.Makers, updated)
		res.Fills = append(res.Fills, core.Fill{
			ID:         e.fillID(),
			Instrument: taker.Instrument,
			TakerID:    taker.ID,
			MakerID:    maker.ID,
			TakerSide:  taker.Side,
			Price:      maker.Price,
			Qty:        qty,
			Timestamp:  at,
		})
	}

	filled := taker.Remaining - remaining
	if filled == 0 {
		return res, nil
	}
	at := e.clock.Now()
	updated, err := book.Update(taker.ID, func(o *core.Order) error {
		return o.ApplyFill(filled, o.Filled()+filled, at)
	})
	if err != nil {
		return res, fmt.Errorf("fill incoming order %s: %w", taker.ID, err)
	}
	res.Taker = updated
	return res, nil
}
