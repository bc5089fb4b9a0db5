package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/hollowaylabs/sonar/internal/config"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/store"
)

// loadConfig bootstraps a command: .env file, configuration, log level.
func loadConfig() config.Config {
	// A missing .env is fine; the variables may already be exported.
	_ = godotenv.Load()

	cfg := config.Load()
	if cfg.Debug {
		logging.SetDebug(true)
	}
	return cfg
}

// runContext returns a context cancelled by Ctrl+C.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// openLedger opens the run ledger, creating its directory if needed.
// Returns nil when the ledger cannot be opened: run history is
// bookkeeping, never a reason to skip a run.
func openLedger(cfg config.Config) *store.Store {
	if err := os.MkdirAll(filepath.Dir(cfg.LedgerPath), 0o755); err != nil {
		logging.Warn("run ledger unavailable", "path", cfg.LedgerPath, "error", err)
		return nil
	}
	st, err := store.Open(cfg.LedgerPath)
	if err != nil {
		logging.Warn("run ledger unavailable", "path", cfg.LedgerPath, "error", err)
		return nil
	}
	return st
}

// closeLedger closes a possibly-nil ledger.
func closeLedger(st *store.Store) {
	if st != nil {
		st.Close()
	}
}

// formatDuration renders a run duration at millisecond precision for short
// runs and second precision otherwise.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
