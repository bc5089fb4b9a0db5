package main

import (
	"github.com/hollowaylabs/sonar/internal/coord"
)

func runCollect() {
	cfg := loadConfig()
	ctx, cancel := runContext()
	defer cancel()

	ledger := openLedger(cfg)
	defer closeLedger(ledger)

	c := coord.NewCoordinator(cfg, ledger)
	result := c.CollectOnly(ctx)

	printCollectSummary(cfg, result)
}
