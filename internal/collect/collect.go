// Package collect implements the four source adapters and the aggregator
// that fans them out into one signal bundle.
//
// Every adapter exposes Collect, which never fails: an upstream outage
// degrades that adapter's own record to partial or empty and is logged, so
// no single provider can abort a run.
package collect

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	// fetchTimeout bounds each outbound API call.
	fetchTimeout = 30 * time.Second

	// feedTimeout bounds RSS/Atom feed fetches, which are smaller payloads.
	feedTimeout = 20 * time.Second

	// maxConcurrentFetches caps adapter fan-out.
	maxConcurrentFetches = 4
)

// Per-category adapter seams, narrow so tests can substitute them.
type (
	OnchainSource interface {
		Collect(ctx context.Context) signals.OnchainRecord
	}
	DeveloperSource interface {
		Collect(ctx context.Context) signals.DeveloperRecord
	}
	MarketSource interface {
		Collect(ctx context.Context) signals.MarketRecord
	}
	SocialSource interface {
		Collect(ctx context.Context) signals.SocialRecord
	}
)

// Aggregator fans the four adapters out concurrently and assembles their
// records into one bundle.
type Aggregator struct {
	onchain   OnchainSource
	developer DeveloperSource
	market    MarketSource
	social    SocialSource
	now       func() time.Time
}

// NewAggregator creates an Aggregator over the real upstream adapters.
// githubToken may be empty; it only raises the search rate limit.
func NewAggregator(githubToken string) *Aggregator {
	return NewAggregatorWithSources(
		NewOnchainCollector(),
		NewDeveloperCollector(githubToken),
		NewMarketCollector(),
		NewSocialCollector(),
	)
}

// NewAggregatorWithSources creates an Aggregator with explicit adapters.
func NewAggregatorWithSources(on OnchainSource, dev DeveloperSource, mkt MarketSource, soc SocialSource) *Aggregator {
	return &Aggregator{
		onchain:   on,
		developer: dev,
		market:    mkt,
		social:    soc,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Aggregate collects all four categories and assembles the bundle. The
// adapters run concurrently; each goroutine writes only its own bundle
// field, so the join is the only synchronization needed.
func (a *Aggregator) Aggregate(ctx context.Context) signals.Bundle {
	logging.Info("collecting signals from all sources")

	var bundle signals.Bundle

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	g.Go(func() error { bundle.Onchain = a.onchain.Collect(ctx); return nil })
	g.Go(func() error { bundle.Developer = a.developer.Collect(ctx); return nil })
	g.Go(func() error { bundle.Market = a.market.Collect(ctx); return nil })
	g.Go(func() error { bundle.Social = a.social.Collect(ctx); return nil })
	_ = g.Wait() // adapters never fail the group, errors degrade per-record

	bundle.CollectedAt = a.now().Format(time.RFC3339)

	logging.Info("signal bundle assembled", "signals", bundle.SignalCount())
	return bundle
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
