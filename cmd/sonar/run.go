package main

import (
	"github.com/hollowaylabs/sonar/internal/coord"
)

func runFull() {
	cfg := loadConfig()
	ctx, cancel := runContext()
	defer cancel()

	ledger := openLedger(cfg)
	defer closeLedger(ledger)

	c := coord.NewCoordinator(cfg, ledger)
	result := c.Run(ctx)

	printRunSummary(cfg, result)
}
