package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/orderdesk/params"
	"github.com/uhyunpark/orderdesk/pkg/api"
	"github.com/uhyunpark/orderdesk/pkg/app/core/matching"
	"github.com/uhyunpark/orderdesk/pkg/app/core/service"
	"github.com/uhyunpark/orderdesk/pkg/app/core/store"
	"github.com/uhyunpark/orderdesk/pkg/util"
)

func newClient(t *testing.T) *client {
	t.Helper()
	svc := service.New(store.New(), matching.NewEngine(util.RealClock{}), service.Options{})
	ts := httptest.NewServer(api.NewServer(svc, params.API{}, nil).Handler())
	t.Cleanup(ts.Close)
	return &client{base: ts.URL, http: &http.Client{Timeout: 5 * time.Second}}
}

func TestRunCommands(t *testing.T) {
	c := newClient(t)

	require.NoError(t, run(c, []string{"buy", "PETR4", "28.45", "100"}))
	require.NoError(t, run(c, []string{"sell", "PETR4", "28.40", "40"}))
	require.NoError(t, run(c, []string{"list", "instrument=PETR4", "status=partial"}))
	require.NoError(t, run(c, []string{"get", "ORD-001"}))
	require.NoError(t, run(c, []string{"fills", "PETR4", "5"}))
	require.NoError(t, run(c, []string{"cancel", "ORD-001"}))

	var o api.OrderDetail
	require.NoError(t, c.do(http.MethodGet, "/api/v1/orders/ORD-001", nil, &o))
	assert.Equal(t, "cancelled", o.Status)
	assert.Equal(t, int64(60), o.RemainingQuantity)
}

func TestRunErrors(t *testing.T) {
	c := newClient(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "usage"},
		{"unknown command", []string{"modify"}, "usage"},
		{"bad filter", []string{"list", "instrument"}, "key=value"},
		{"bad price", []string{"buy", "PETR4", "abc", "1"}, "bad price"},
		{"bad quantity", []string{"buy", "PETR4", "1.00", "x"}, "bad quantity"},
		{"rejected by server", []string{"buy", "PETR4", "1.005", "1"}, "invalid order"},
		{"not found", []string{"cancel", "ORD-404"}, "order not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(c, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
