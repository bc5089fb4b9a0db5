// Command sonar tracks emerging narratives in the Solana ecosystem.
//
// It collects signals from onchain data, developer activity, market
// metrics, and social/news sources, then synthesizes them into narratives
// with concrete build ideas.
//
// Usage:
//
//	sonar              Full run: collect + analyze + site data
//	sonar collect      Collect raw signals only
//	sonar analyze      Analyze previously collected signals
//	sonar history      Recent runs from the run ledger
package main

import (
	"fmt"
	"os"
)

const usage = `sonar — Solana ecosystem narrative radar

Usage:
  sonar [command] [flags]

Commands:
  run         Collect signals, analyze narratives, write site data (default)
  collect     Collect raw signals only
  analyze     Analyze previously collected signals (requires a prior collect)
  history     Show recent runs from the run ledger

Environment:
  ANTHROPIC_API_KEY  Reasoning service key (unset: raw signals only)
  GITHUB_TOKEN       GitHub token for higher search rate limits (optional)
  SONAR_MODEL        Analysis model (default: claude-sonnet-4-5-20250929)
  SONAR_DATA_DIR     Artifact directory (default: data)
  SONAR_SITE_DIR     Dashboard data directory (default: site)
  SONAR_DB           Run ledger path (default: <data dir>/sonar.db)
  SONAR_DEBUG        Verbose logging when set

Run 'sonar <command> -h' for command-specific help.
`

func main() {
	// No arguments means a full run, matching the primary workflow.
	if len(os.Args) < 2 {
		runFull()
		return
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "run":
		runFull()
	case "collect":
		runCollect()
	case "analyze":
		runAnalyze()
	case "history":
		runHistory()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "sonar: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
