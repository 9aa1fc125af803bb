package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestOrder(qty int64) Order {
	return NewOrder("ORD-001", 1, OrderRequest{
		Instrument: "PETR4",
		Side:       Buy,
		Price:      decimal.RequireFromString("28.45"),
		Quantity:   qty,
	}, t0)
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"buy", Buy, false},
		{"SELL", Sell, false},
		{" Buy ", Buy, false},
		{"hold", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []Status{Open, Partial, Executed, Cancelled} {
		got, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseStatus("Canceled")
	require.NoError(t, err)
	assert.Equal(t, Cancelled, got)

	_, err = ParseStatus("filled")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSideOpposite(t *testing.T) {
	assert.Equal(t, Sell, Buy.Opposite())
	assert.Equal(t, Buy, Sell.Opposite())
	assert.False(t, Side(0).Valid())
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		name    string
		price   string
		wantErr bool
	}{
		{"whole", "28", false},
		{"one decimal", "28.5", false},
		{"two decimals", "28.45", false},
		{"trailing zeros", "28.4500", false},
		{"sub-cent", "28.455", true},
		{"zero", "0", true},
		{"negative", "-1.00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrice(decimal.RequireFromString(tt.price))
			if tt.wantErr {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "price", verr.Field)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 68.32 ")
	require.NoError(t, err)
	assert.True(t, p.Equal(decimal.RequireFromString("68.32")))

	_, err = ParsePrice("abc")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = ParsePrice("1.001")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestOrderRequestValidate(t *testing.T) {
	valid := func() OrderRequest {
		return OrderRequest{
			Instrument: " petr4 ",
			Side:       Buy,
			Price:      decimal.RequireFromString("10.00"),
			Quantity:   100,
		}
	}

	req := valid()
	require.NoError(t, req.Validate())
	assert.Equal(t, "PETR4", req.Instrument)

	tests := []struct {
		name  string
		mut   func(*OrderRequest)
		field string
	}{
		{"empty instrument", func(r *OrderRequest) { r.Instrument = "  " }, "instrument"},
		{"bad side", func(r *OrderRequest) { r.Side = 0 }, "side"},
		{"zero price", func(r *OrderRequest) { r.Price = decimal.Zero }, "price"},
		{"zero quantity", func(r *OrderRequest) { r.Quantity = 0 }, "quantity"},
		{"negative quantity", func(r *OrderRequest) { r.Quantity = -5 }, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mut(&r)
			err := r.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewOrder(t *testing.T) {
	o := newTestOrder(100)

	assert.Equal(t, Open, o.Status)
	assert.Equal(t, int64(100), o.Remaining)
	assert.Equal(t, int64(0), o.Filled())
	require.Len(t, o.History, 1)
	assert.Equal(t, HistoryEntry{Timestamp: t0, Status: Open, Description: DescCreated}, o.History[0])
	assert.NoError(t, o.CheckInvariants())
}

func TestApplyFill(t *testing.T) {
	o := newTestOrder(150)

	require.NoError(t, o.ApplyFill(100, 100, t0.Add(time.Second)))
	assert.Equal(t, Partial, o.Status)
	assert.Equal(t, int64(50), o.Remaining)
	assert.Equal(t, "order partially executed (100 units)", o.History[1].Description)
	assert.NoError(t, o.CheckInvariants())

	require.NoError(t, o.ApplyFill(50, 50, t0.Add(2*time.Second)))
	assert.Equal(t, Executed, o.Status)
	assert.Equal(t, int64(0), o.Remaining)
	assert.Equal(t, DescExecuted, o.History[2].Description)
	assert.NoError(t, o.CheckInvariants())

	// terminal: nothing more can be filled
	assert.Error(t, o.ApplyFill(1, 1, t0))
	assert.Len(t, o.History, 3)
}

func TestApplyFillBounds(t *testing.T) {
	o := newTestOrder(10)
	assert.Error(t, o.ApplyFill(0, 0, t0))
	assert.Error(t, o.ApplyFill(11, 11, t0))
	assert.Equal(t, Open, o.Status)
	assert.Len(t, o.History, 1)
}

func TestCancel(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		o := newTestOrder(100)
		require.NoError(t, o.Cancel(t0.Add(time.Minute)))
		assert.Equal(t, Cancelled, o.Status)
		assert.Equal(t, int64(100), o.Remaining)
		assert.Equal(t, DescCancelled, o.History[len(o.History)-1].Description)
		assert.NoError(t, o.CheckInvariants())
	})

	t.Run("partial keeps remaining", func(t *testing.T) {
		o := newTestOrder(200)
		require.NoError(t, o.ApplyFill(120, 120, t0))
		require.NoError(t, o.Cancel(t0))
		assert.Equal(t, Cancelled, o.Status)
		assert.Equal(t, int64(80), o.Remaining)
	})

	t.Run("terminal", func(t *testing.T) {
		for _, prep := range []func(*Order){
			func(o *Order) { _ = o.ApplyFill(o.Remaining, o.Remaining, t0) },
			func(o *Order) { _ = o.Cancel(t0) },
		} {
			o := newTestOrder(10)
			prep(&o)
			before := len(o.History)

			err := o.Cancel(t0)
			var cerr *NotCancellableError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, o.Status, cerr.Status)
			assert.ErrorIs(t, err, ErrNotCancellable)
			assert.Len(t, o.History, before)
		}
	})
}

func TestClone(t *testing.T) {
	o := newTestOrder(100)
	cp := o.Clone()
	cp.History[0].Description = "changed"
	cp.History = append(cp.History, HistoryEntry{})
	cp.Remaining = 1

	assert.Equal(t, DescCreated, o.History[0].Description)
	assert.Len(t, o.History, 1)
	assert.Equal(t, int64(100), o.Remaining)
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Order)
	}{
		{"negative remaining", func(o *Order) { o.Remaining = -1 }},
		{"remaining above quantity", func(o *Order) { o.Remaining = 101 }},
		{"open with fills", func(o *Order) { o.Remaining = 50 }},
		{"executed with remaining", func(o *Order) { o.Status = Executed }},
		{"empty history", func(o *Order) { o.History = nil }},
		{"history out of sync", func(o *Order) { o.Status = Cancelled }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(100)
			tt.mut(&o)
			assert.Error(t, o.CheckInvariants())
		})
	}
}

func TestErrorsIs(t *testing.T) {
	assert.True(t, errors.Is(&NotFoundError{ID: "ORD-9"}, ErrNotFound))
	assert.True(t, errors.Is(&DuplicateIDError{ID: "ORD-1"}, ErrDuplicateID))
	assert.False(t, errors.Is(&NotFoundError{ID: "ORD-9"}, ErrValidation))
	assert.Equal(t, "order ORD-9 not found", (&NotFoundError{ID: "ORD-9"}).Error())
}
