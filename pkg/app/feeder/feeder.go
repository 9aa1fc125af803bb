// Package feeder simulates other desk participants by submitting random
// limit orders and cancels through the order service. It is a demo aid
// and is off unless enabled in configuration.
package feeder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/orderdesk/pkg/app/core"
)

// Config controls the order flow
type Config struct {
	Interval      time.Duration // how often a batch is submitted
	BatchSize     int           // actions per batch
	CancelPercent int           // share of actions that cancel a resting order
	Symbols       []string      // instruments to trade
	Seed          int64         // 0 picks a time-based seed
}

// DefaultConfig returns a gentle flow for a demo desk
func DefaultConfig() Config {
	return Config{
		Interval:      2 * time.Second,
		BatchSize:     3,
		CancelPercent: 10,
		Symbols:       []string{"PETR4", "VALE3", "ITUB4"},
	}
}

// OrderService is the subset of the service the feeder drives.
type OrderService interface {
	CreateOrder(req core.OrderRequest) (core.Order, error)
	CancelOrder(id string) (core.Order, error)
	ListOrders(f core.OrderFilter) ([]core.Order, error)
}

// Start runs the feeder in a background goroutine until ctx is cancelled
// or the returned cancel function is called.
func Start(ctx context.Context, svc OrderService, cfg Config, logger *zap.SugaredLogger) context.CancelFunc {
	feedCtx, cancel := context.WithCancel(ctx)
	go Run(feedCtx, svc, cfg, logger)
	return cancel
}

// Run feeds orders until ctx is done.
func Run(ctx context.Context, svc OrderService, cfg Config, logger *zap.SugaredLogger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if len(cfg.Symbols) == 0 {
		logger.Warn("feeder_no_symbols")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	gen := NewGenerator(cfg.Symbols, cfg.Seed)
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	start := time.Now()
	logger.Infow("feeder_started",
		"interval_ms", cfg.Interval.Milliseconds(),
		"batch", cfg.BatchSize,
		"cancel_pct", cfg.CancelPercent,
		"symbols", cfg.Symbols)

	for {
		select {
		case <-ctx.Done():
			st := gen.Stats()
			logger.Infow("feeder_stopped",
				"orders", st.Orders,
				"cancels", st.Cancels,
				"elapsed", time.Since(start).Round(time.Second).String())
			return

		case <-ticker.C:
			for i := 0; i < cfg.BatchSize; i++ {
				step(svc, gen, cfg, logger)
			}
		}
	}
}

func step(svc OrderService, gen *Generator, cfg Config, logger *zap.SugaredLogger) {
	if gen.ShouldCancel(cfg.CancelPercent) {
		if id := gen.PickCancel(restingIDs(svc)); id != "" {
			// the order may have executed since it was listed
			if _, err := svc.CancelOrder(id); err != nil {
				logger.Debugw("feeder_cancel_skipped", "id", id, "err", err)
			}
			return
		}
	}

	req := gen.GenerateOrder()
	if _, err := svc.CreateOrder(req); err != nil {
		logger.Warnw("feeder_order_rejected", "instrument", req.Instrument, "err", err)
	}
}

func restingIDs(svc OrderService) []string {
	orders, err := svc.ListOrders(core.OrderFilter{})
	if err != nil {
		return nil
	}
	var ids []string
	for _, o := range orders {
		if o.Status.Resting() {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
