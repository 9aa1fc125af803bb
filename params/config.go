package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/uhyunpark/orderdesk/pkg/app/core/instrument"
)

type API struct {
	Addr        string
	CORSOrigins []string
	// Latency delays every API response. It only exists to make a UI
	// feel like it talks to a remote exchange; the core never waits.
	Latency time.Duration
}

type Log struct {
	File  string
	Level string
}

type Desk struct {
	Instruments       []string
	StrictInstruments bool
	SeedFile          string
	JournalEnabled    bool
}

type Client struct {
	APIURL string
}

// Feeder configures simulated order flow (off by default)
type Feeder struct {
	Enabled       bool
	Interval      time.Duration
	BatchSize     int
	CancelPercent int
	Symbols       []string // empty means every configured instrument
}

type Config struct {
	API    API
	Log    Log
	Desk   Desk
	Client Client
	Feeder Feeder
}

func Default() Config {
	return Config{
		API: API{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Log: Log{
			File:  "data/orderd.log",
			Level: "info",
		},
		Desk: Desk{
			Instruments:    append([]string(nil), instrument.Defaults...),
			JournalEnabled: true,
		},
		Client: Client{
			APIURL: "http://localhost:8080",
		},
		Feeder: Feeder{
			Interval:      2 * time.Second,
			BatchSize:     3,
			CancelPercent: 10,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// godotenv never overrides variables already set in the environment
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.API.CORSOrigins = splitList(origins)
	}
	if ms := os.Getenv("API_LATENCY_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v >= 0 {
			cfg.API.Latency = time.Duration(v) * time.Millisecond
		}
	}

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	if syms := os.Getenv("INSTRUMENTS"); syms != "" {
		cfg.Desk.Instruments = splitList(syms)
	}
	if strict := os.Getenv("STRICT_INSTRUMENTS"); strict != "" {
		cfg.Desk.StrictInstruments = strict == "true"
	}
	cfg.Desk.SeedFile = getEnv("SEED_FILE", cfg.Desk.SeedFile)
	if journal := os.Getenv("JOURNAL_ENABLED"); journal != "" {
		cfg.Desk.JournalEnabled = journal == "true"
	}

	cfg.Client.APIURL = getEnv("CLIENT_API_URL", cfg.Client.APIURL)

	cfg.Feeder.Enabled = os.Getenv("FEEDER_ENABLED") == "true"
	if ms := os.Getenv("FEEDER_INTERVAL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Feeder.Interval = time.Duration(v) * time.Millisecond
		}
	}
	cfg.Feeder.BatchSize = getEnvInt("FEEDER_BATCH", cfg.Feeder.BatchSize)
	cfg.Feeder.CancelPercent = getEnvInt("FEEDER_CANCEL_PCT", cfg.Feeder.CancelPercent)
	if syms := os.Getenv("FEEDER_SYMBOLS"); syms != "" {
		cfg.Feeder.Symbols = splitList(syms)
	}

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of key, or defaultValue if unset or malformed
func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
