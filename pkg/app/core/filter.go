package core

import "time"

// DateLayout is the calendar-date format used by OrderFilter.Date.
const DateLayout = "2006-01-02"

// OrderFilter is a conjunction of optional constraints. Zero-valued
// fields are unconstrained.
type OrderFilter struct {
	ID         string
	Instrument string
	Side       *Side
	Status     *Status
	Date       string // YYYY-MM-DD, compared against the UTC creation date
}

// ValidateDate reports whether Date is empty or a well-formed calendar date.
func (f OrderFilter) ValidateDate() error {
	if f.Date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, f.Date); err != nil {
		return &ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return nil
}

func (f OrderFilter) Match(o *Order) bool {
	if f.ID != "" && o.ID != f.ID {
		return false
	}
	if f.Instrument != "" && o.Instrument != NormalizeInstrument(f.Instrument) {
		return false
	}
	if f.Side != nil && o.Side != *f.Side {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.Date != "" && o.CreatedAt.UTC().Format(DateLayout) != f.Date {
		return false
	}
	return true
}
