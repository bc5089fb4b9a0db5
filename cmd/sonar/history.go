package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hollowaylabs/sonar/internal/store"
)

func runHistory() {
	cfg := loadConfig()

	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 10, "Number of runs to show")
	fs.Parse(os.Args[1:])

	st, err := store.Open(cfg.LedgerPath)
	if err != nil {
		fmt.Println("No runs recorded yet.")
		return
	}
	defer st.Close()

	runs, err := st.RecentRuns(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: read run ledger: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	total, _ := st.RunCount()
	fmt.Println(banner.Render(fmt.Sprintf("RUN HISTORY (%d of %d)", len(runs), total)))
	fmt.Println()
	fmt.Println(header.Render(fmt.Sprintf("%-17s %-8s %8s %11s %9s  %-18s %s",
		"STARTED", "MODE", "SIGNALS", "NARRATIVES", "DURATION", "STATUS", "MODEL")))

	for _, run := range runs {
		fmt.Printf("%-17s %-8s %8d %11d %9s  %s %s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Mode,
			run.SignalsAnalyzed,
			run.Narratives,
			formatDuration(run.FinishedAt.Sub(run.StartedAt)),
			statusCell(run.Status),
			run.Model,
		)
	}
}

// statusCell pads the status before styling so ANSI codes stay out of the
// column math.
func statusCell(status string) string {
	cell := fmt.Sprintf("%-18s", status)
	if status == "ok" {
		return okText.Render(cell)
	}
	return warnText.Render(cell)
}
