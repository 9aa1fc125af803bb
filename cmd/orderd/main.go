package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/uhyunpark/orderdesk/params"
	"github.com/uhyunpark/orderdesk/pkg/api"
	"github.com/uhyunpark/orderdesk/pkg/app/core/instrument"
	"github.com/uhyunpark/orderdesk/pkg/app/core/matching"
	"github.com/uhyunpark/orderdesk/pkg/app/core/seed"
	"github.com/uhyunpark/orderdesk/pkg/app/core/service"
	"github.com/uhyunpark/orderdesk/pkg/app/core/store"
	"github.com/uhyunpark/orderdesk/pkg/app/feeder"
	"github.com/uhyunpark/orderdesk/pkg/storage"
	"github.com/uhyunpark/orderdesk/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	// Setup logging (write to both console and file)
	logger, err := util.NewLoggerWithFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", cfg.Log.Level)

	// ---- Core ----
	registry := instrument.NewRegistry(cfg.Desk.Instruments...)
	clock := util.RealClock{}

	opts := service.Options{
		Clock:             clock,
		Logger:            sugar,
		Instruments:       registry,
		StrictInstruments: cfg.Desk.StrictInstruments,
	}

	if cfg.Desk.JournalEnabled {
		journal, err := storage.OpenMemJournal()
		if err != nil {
			sugar.Fatalw("journal_open_failed", "err", err)
		}
		defer journal.Close()
		opts.Journal = journal
	}

	svc := service.New(store.New(), matching.NewEngine(clock), opts)

	sugar.Infow("desk_config",
		"instruments", registry.Count(),
		"strict_instruments", cfg.Desk.StrictInstruments,
		"journal", cfg.Desk.JournalEnabled)

	// ---- Seed (optional) ----
	if cfg.Desk.SeedFile != "" {
		entries, err := seed.Load(cfg.Desk.SeedFile)
		if err != nil {
			sugar.Fatalw("seed_load_failed", "file", cfg.Desk.SeedFile, "err", err)
		}
		orders, err := seed.Apply(svc, entries)
		if err != nil {
			sugar.Fatalw("seed_apply_failed", "file", cfg.Desk.SeedFile, "applied", len(orders), "err", err)
		}
		sugar.Infow("seed_applied", "file", cfg.Desk.SeedFile, "orders", len(orders))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Order Feeder (optional) ----
	// Enable with: FEEDER_ENABLED=true [FEEDER_INTERVAL_MS=500 FEEDER_BATCH=5]
	if cfg.Feeder.Enabled {
		symbols := cfg.Feeder.Symbols
		if len(symbols) == 0 {
			symbols = registry.List()
		}
		cancelFeeder := feeder.Start(ctx, svc, feeder.Config{
			Interval:      cfg.Feeder.Interval,
			BatchSize:     cfg.Feeder.BatchSize,
			CancelPercent: cfg.Feeder.CancelPercent,
			Symbols:       symbols,
		}, sugar)
		defer cancelFeeder()
	} else {
		sugar.Info("feeder_disabled")
	}

	// ---- API Server ----
	server := api.NewServer(svc, cfg.API, sugar)
	sugar.Infow("api_config",
		"addr", cfg.API.Addr,
		"cors_origins", cfg.API.CORSOrigins,
		"latency_ms", cfg.API.Latency.Milliseconds())

	if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("api_server_failed", "err", err)
		return
	}
	sugar.Info("shutdown complete")
}
