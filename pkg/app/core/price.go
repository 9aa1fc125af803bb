package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PriceDecimals is the precision limit prices are quoted in.
const PriceDecimals = 2

// ParsePrice parses a decimal string and applies ValidatePrice.
func ParsePrice(v string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "price", Reason: "not a decimal number"}
	}
	if err := ValidatePrice(p); err != nil {
		return decimal.Zero, err
	}
	return p, nil
}

// ValidatePrice enforces price > 0 with at most two decimal places.
// Sub-cent prices are rejected, never rounded.
func ValidatePrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return &ValidationError{Field: "price", Reason: "must be positive"}
	}
	if !p.Equal(p.Truncate(PriceDecimals)) {
		return &ValidationError{Field: "price", Reason: "at most two decimal places allowed"}
	}
	return nil
}

// NormalizeInstrument trims and upper-cases a symbol.
func NormalizeInstrument(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

// Validate checks a request and normalizes its instrument in place.
func (r *OrderRequest) Validate() error {
	r.Instrument = NormalizeInstrument(r.Instrument)
	if r.Instrument == "" {
		return &ValidationError{Field: "instrument", Reason: "must not be empty"}
	}
	if !r.Side.Valid() {
		return &ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
	if err := ValidatePrice(r.Price); err != nil {
		return err
	}
	if r.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	return nil
}
