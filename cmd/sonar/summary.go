package main

import (
	"fmt"

	"github.com/hollowaylabs/sonar/internal/config"
	"github.com/hollowaylabs/sonar/internal/coord"
)

// printRunSummary renders the closing summary for full and analyze runs.
func printRunSummary(cfg config.Config, result coord.RunResult) {
	fmt.Println()
	fmt.Println(banner.Render("SONAR — Run Complete"))
	fmt.Printf("  %s%d\n", label.Render("signals analyzed"), result.SignalsAnalyzed)
	fmt.Printf("  %s%d\n", label.Render("narratives"), result.Narratives)
	fmt.Printf("  %s%s\n", label.Render("status"), renderStatus(result.ReportStatus))
	fmt.Printf("  %s%s\n", label.Render("duration"), formatDuration(result.FinishedAt.Sub(result.StartedAt)))
	fmt.Println()
	fmt.Println("  " + header.Render("artifacts"))
	fmt.Printf("    %s\n", cfg.SignalsPath())
	fmt.Printf("    %s\n", cfg.AnalysisPath())
	fmt.Printf("    %s\n", cfg.SitePath())
	fmt.Println()

	if result.Narratives > 0 {
		fmt.Println(okText.Render(fmt.Sprintf("Done! %d narratives detected.", result.Narratives)))
	} else {
		fmt.Println("Done! Raw signals collected (analysis requires ANTHROPIC_API_KEY).")
	}
	fmt.Printf("Dashboard data: %s\n", cfg.SitePath())
}

// printCollectSummary renders the closing summary for collect-only runs.
func printCollectSummary(cfg config.Config, result coord.RunResult) {
	fmt.Println()
	fmt.Println(banner.Render("SONAR — Signal Collection"))
	fmt.Printf("  %s%d\n", label.Render("signals collected"), result.SignalsAnalyzed)
	fmt.Printf("  %s%s\n", label.Render("duration"), formatDuration(result.FinishedAt.Sub(result.StartedAt)))
	fmt.Println()
	fmt.Printf("Raw signals saved to %s\n", cfg.SignalsPath())
}

// renderStatus colors the run status: green for a parsed report, amber for
// the fallback variants.
func renderStatus(status string) string {
	if status == "" {
		return okText.Render("ok")
	}
	return warnText.Render(status)
}
