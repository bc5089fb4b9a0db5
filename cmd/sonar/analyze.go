package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hollowaylabs/sonar/internal/coord"
)

func runAnalyze() {
	cfg := loadConfig()
	ctx, cancel := runContext()
	defer cancel()

	ledger := openLedger(cfg)
	defer closeLedger(ledger)

	c := coord.NewCoordinator(cfg, ledger)
	result, err := c.AnalyzeOnly(ctx)
	if err != nil {
		if errors.Is(err, coord.ErrNoSignals) {
			fmt.Fprintln(os.Stderr, "ERROR: No signals.json found. Run collection first.")
		} else {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}

	printRunSummary(cfg, result)
}
