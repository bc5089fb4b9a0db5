package narrative

import (
	"context"
	"time"

	"github.com/hollowaylabs/sonar/internal/digest"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

// Analyzer turns a signal bundle into a narrative report via the reasoning
// service, or into one of the two fallback variants when it cannot.
type Analyzer struct {
	provider Provider
	now      func() time.Time // injectable for tests
}

// NewAnalyzer creates an Analyzer backed by the given provider. A nil
// provider behaves like an unconfigured one.
func NewAnalyzer(p Provider) *Analyzer {
	return &Analyzer{
		provider: p,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Analyze runs the three-state analysis flow. It never fails: every path
// produces a report.
//
// Exactly one request is issued per run. A transport failure is treated the
// same as a missing credential and is never retried.
func (a *Analyzer) Analyze(ctx context.Context, bundle signals.Bundle) Report {
	dig := digest.Synthesize(bundle)
	total := bundle.SignalCount()

	if a.provider == nil || !a.provider.Available() {
		logging.Info("analysis unavailable, returning raw signal digest", "signals", total)
		return rawSignalsReport(dig, total, a.now())
	}

	logging.Info("sending signal digest for analysis",
		"provider", a.provider.Name(),
		"signals", total,
		"digest_bytes", len(dig))

	resp, err := a.provider.Generate(ctx, Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userMessage(a.now(), dig),
		MaxTokens:    maxAnalysisTokens,
	})
	if err != nil {
		logging.Error("analysis request failed, returning raw signal digest", "error", err)
		return rawSignalsReport(dig, total, a.now())
	}

	report, ok := parseReport(resp.Content)
	if !ok {
		logging.Warn("analysis response could not be parsed, keeping raw response",
			"model", resp.Model,
			"response_bytes", len(resp.Content))
		return unparsedReport(resp.Content, total, a.now())
	}

	// The aggregator count always wins over whatever the model reported.
	report.Meta.SignalsAnalyzed = total

	logging.Info("narratives generated",
		"count", len(report.Narratives),
		"signals", total,
		"model", resp.Model)
	return report
}
