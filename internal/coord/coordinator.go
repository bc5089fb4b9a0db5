// Package coord sequences pipeline runs: collect, analyze, project, persist.
package coord

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hollowaylabs/sonar/internal/collect"
	"github.com/hollowaylabs/sonar/internal/config"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/narrative"
	"github.com/hollowaylabs/sonar/internal/signals"
	"github.com/hollowaylabs/sonar/internal/site"
	"github.com/hollowaylabs/sonar/internal/store"
)

// Run modes recorded in the run ledger.
const (
	ModeFull    = "run"
	ModeCollect = "collect"
	ModeAnalyze = "analyze"
)

// ErrNoSignals is returned by AnalyzeOnly when no collected bundle exists on
// disk. It is the only fatal precondition in the pipeline.
var ErrNoSignals = errors.New("no collected signals found")

// aggregator interface for dependency injection (testing).
type aggregator interface {
	Aggregate(ctx context.Context) signals.Bundle
}

// analyzer interface for dependency injection (testing).
type analyzer interface {
	Analyze(ctx context.Context, bundle signals.Bundle) narrative.Report
}

// Coordinator drives one pipeline run at a time. Stages degrade rather than
// fail: a lost artifact write is logged and never blocks the stages after it.
type Coordinator struct {
	cfg        config.Config
	aggregator aggregator
	analyzer   analyzer
	ledger     *store.Store // optional: nil disables run history
	now        func() time.Time
}

// NewCoordinator wires the production pipeline from configuration.
func NewCoordinator(cfg config.Config, ledger *store.Store) *Coordinator {
	provider := narrative.NewClaudeProvider(cfg.AnthropicAPIKey, cfg.Model)
	return NewCoordinatorWith(cfg,
		collect.NewAggregator(cfg.GitHubToken),
		narrative.NewAnalyzer(provider),
		ledger)
}

// NewCoordinatorWith allows injecting the aggregator and analyzer (for testing).
func NewCoordinatorWith(cfg config.Config, agg aggregator, an analyzer, ledger *store.Store) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		aggregator: agg,
		analyzer:   an,
		ledger:     ledger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// RunResult summarizes a finished run for the CLI.
type RunResult struct {
	RunID           string
	Mode            string
	StartedAt       time.Time
	FinishedAt      time.Time
	SignalsAnalyzed int
	Narratives      int
	ReportStatus    string // empty when the report came from a parsed model response
}

// Run executes the full pipeline: collect, persist the bundle, analyze,
// persist the report, then project and persist the dashboard document.
func (c *Coordinator) Run(ctx context.Context) RunResult {
	started := c.now()
	logging.Info("starting full run")

	bundle := c.aggregator.Aggregate(ctx)
	c.persist(c.cfg.SignalsPath(), bundle, "signal bundle")

	return c.finish(ctx, ModeFull, started, bundle)
}

// CollectOnly gathers and persists the signal bundle without analysis.
func (c *Coordinator) CollectOnly(ctx context.Context) RunResult {
	started := c.now()
	logging.Info("starting collect-only run")

	bundle := c.aggregator.Aggregate(ctx)
	c.persist(c.cfg.SignalsPath(), bundle, "signal bundle")

	result := RunResult{
		RunID:           uuid.NewString(),
		Mode:            ModeCollect,
		StartedAt:       started,
		FinishedAt:      c.now(),
		SignalsAnalyzed: bundle.SignalCount(),
	}
	c.record(result)
	return result
}

// AnalyzeOnly loads the previously collected bundle and proceeds from the
// analysis stage onward. It fails only when no bundle artifact exists.
func (c *Coordinator) AnalyzeOnly(ctx context.Context) (RunResult, error) {
	started := c.now()
	logging.Info("starting analyze-only run", "signals_path", c.cfg.SignalsPath())

	var bundle signals.Bundle
	if err := store.LoadJSON(c.cfg.SignalsPath(), &bundle); err != nil {
		if os.IsNotExist(err) {
			return RunResult{}, ErrNoSignals
		}
		return RunResult{}, fmt.Errorf("load signal bundle: %w", err)
	}

	return c.finish(ctx, ModeAnalyze, started, bundle), nil
}

// finish runs the shared tail of the pipeline: analyze, persist the report,
// build and persist the dashboard document, record the run.
func (c *Coordinator) finish(ctx context.Context, mode string, started time.Time, bundle signals.Bundle) RunResult {
	report := c.analyzer.Analyze(ctx, bundle)
	c.persist(c.cfg.AnalysisPath(), report, "narrative report")

	doc := site.Build(report, bundle, c.now())
	c.persist(c.cfg.SitePath(), doc, "dashboard document")

	result := RunResult{
		RunID:           uuid.NewString(),
		Mode:            mode,
		StartedAt:       started,
		FinishedAt:      c.now(),
		SignalsAnalyzed: report.Meta.SignalsAnalyzed,
		Narratives:      len(report.Narratives),
		ReportStatus:    report.Meta.Status,
	}
	c.record(result)
	return result
}

// persist writes one artifact. Failures are logged, not returned: later
// stages work from the in-memory value, not the file.
func (c *Coordinator) persist(path string, v any, label string) {
	if err := store.SaveJSON(path, v); err != nil {
		logging.Error("failed to persist "+label, "path", path, "error", err)
		return
	}
	logging.Info("persisted "+label, "path", path)
}

// record appends the run to the ledger when one is configured.
func (c *Coordinator) record(result RunResult) {
	if c.ledger == nil {
		return
	}

	status := result.ReportStatus
	if status == "" {
		status = "ok"
	}
	model := ""
	if result.Mode != ModeCollect {
		model = c.cfg.Model
	}

	run := store.Run{
		ID:              result.RunID,
		Mode:            result.Mode,
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
		SignalsAnalyzed: result.SignalsAnalyzed,
		Narratives:      result.Narratives,
		Status:          status,
		Model:           model,
	}
	if err := c.ledger.RecordRun(run); err != nil {
		logging.Error("failed to record run", "run_id", run.ID, "error", err)
	}
}
