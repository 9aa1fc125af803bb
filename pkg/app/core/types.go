package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// Opposite returns the side an order of side s trades against.
func (s Side) Opposite() Side { return -s }

func (s Side) Valid() bool { return s == Buy || s == Sell }

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, &ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
}

// Status is the lifecycle state of an order.
type Status int8

const (
	Open      Status = iota // nothing executed yet
	Partial                 // some quantity executed, rest still resting
	Executed                // fully executed (terminal)
	Cancelled               // cancelled by user (terminal)
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Partial:
		return "partial"
	case Executed:
		return "executed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Resting reports whether an order in this status can still be matched.
func (s Status) Resting() bool { return s == Open || s == Partial }

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool { return s == Executed || s == Cancelled }

func ParseStatus(v string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "open":
		return Open, nil
	case "partial":
		return Partial, nil
	case "executed":
		return Executed, nil
	case "cancelled", "canceled":
		return Cancelled, nil
	default:
		return 0, &ValidationError{Field: "status", Reason: "unknown status " + v}
	}
}

// HistoryEntry is one immutable line of an order's audit trail.
type HistoryEntry struct {
	Timestamp   time.Time
	Status      Status
	Description string
}

// Order is a simple limit order together with its history.
// Values handed out by the store are copies; see Clone.
type Order struct {
	ID         string
	Instrument string
	Side       Side
	Price      decimal.Decimal // limit price, two decimals at most
	Quantity   int64           // original quantity
	Remaining  int64
	Status     Status
	CreatedAt  time.Time
	Seq        uint64 // insertion sequence, last-resort time tiebreak
	History    []HistoryEntry
}

// Filled returns the quantity executed so far.
func (o *Order) Filled() int64 { return o.Quantity - o.Remaining }

// Clone returns a deep copy; the history slice is not shared.
func (o Order) Clone() Order {
	cp := o
	if o.History != nil {
		cp.History = make([]HistoryEntry, len(o.History))
		copy(cp.History, o.History)
	}
	return cp
}

// OrderRequest carries the caller-supplied fields of a new order.
type OrderRequest struct {
	Instrument string
	Side       Side
	Price      decimal.Decimal
	Quantity   int64
}

// Fill is one match step between an incoming (taker) order and a
// resting (maker) order. Price is always the maker's price.
type Fill struct {
	ID         string
	Instrument string
	TakerID    string
	MakerID    string
	TakerSide  Side
	Price      decimal.Decimal
	Qty        int64
	Timestamp  time.Time
}
