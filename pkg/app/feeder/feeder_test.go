package feeder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
	"github.com/uhyunpark/orderdesk/pkg/app/core/matching"
	"github.com/uhyunpark/orderdesk/pkg/app/core/service"
	"github.com/uhyunpark/orderdesk/pkg/app/core/store"
	"github.com/uhyunpark/orderdesk/pkg/util"
)

func TestGeneratorProducesValidOrders(t *testing.T) {
	g := NewGenerator([]string{"PETR4", "VALE3"}, 42)
	for i := 0; i < 1000; i++ {
		req := g.GenerateOrder()
		require.NoError(t, req.Validate(), "%+v", req)
		assert.Zero(t, req.Quantity%100)
	}
	assert.Equal(t, 1000, g.Stats().Orders)
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator([]string{"PETR4", "VALE3", "ITUB4"}, 7)
	b := NewGenerator([]string{"PETR4", "VALE3", "ITUB4"}, 7)
	for i := 0; i < 50; i++ {
		ra, rb := a.GenerateOrder(), b.GenerateOrder()
		assert.Equal(t, ra.Instrument, rb.Instrument)
		assert.Equal(t, ra.Side, rb.Side)
		assert.True(t, ra.Price.Equal(rb.Price))
		assert.Equal(t, ra.Quantity, rb.Quantity)
	}
}

func TestPickCancel(t *testing.T) {
	g := NewGenerator([]string{"PETR4"}, 1)
	assert.Equal(t, "", g.PickCancel(nil))
	assert.Equal(t, "ORD-003", g.PickCancel([]string{"ORD-003"}))
	assert.Equal(t, 1, g.Stats().Cancels)

	assert.False(t, g.ShouldCancel(0))
	assert.True(t, g.ShouldCancel(100))
}

func TestRunFeedsService(t *testing.T) {
	clock := util.RealClock{}
	svc := service.New(store.New(), matching.NewEngine(clock), service.Options{Clock: clock})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, svc, Config{
			Interval:      time.Millisecond,
			BatchSize:     5,
			CancelPercent: 20,
			Symbols:       []string{"PETR4", "VALE3"},
			Seed:          99,
		}, zap.NewNop().Sugar())
		close(done)
	}()

	require.Eventually(t, func() bool {
		orders, _ := svc.ListOrders(core.OrderFilter{})
		return len(orders) >= 50
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	orders, err := svc.ListOrders(core.OrderFilter{})
	require.NoError(t, err)
	var buyFilled, sellFilled int64
	for _, o := range orders {
		require.NoError(t, o.CheckInvariants())
		if o.Side == core.Buy {
			buyFilled += o.Filled()
		} else {
			sellFilled += o.Filled()
		}
	}
	assert.Equal(t, buyFilled, sellFilled)
}

func TestRunWithoutSymbolsReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		Run(context.Background(), nil, Config{}, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return without symbols")
	}
}
