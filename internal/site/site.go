// Package site builds the single JSON document the static dashboard reads.
package site

import (
	"time"

	"github.com/hollowaylabs/sonar/internal/narrative"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	maxHighlightMovers = 5
	maxHighlightRepos  = 5
	maxNewsPerSource   = 5
	maxRecentNews      = 10
)

// Document is the artifact written to site/data.json.
type Document struct {
	GeneratedAt string           `json:"generated_at"`
	Analysis    narrative.Report `json:"analysis"`
	Highlights  Highlights       `json:"highlights"`
}

// Highlights is the above-the-fold projection of the signal bundle.
type Highlights struct {
	SolPrice      signals.SolSnapshot `json:"sol_price"`
	TVL           signals.TVLSnapshot `json:"tvl"`
	TopMovers     []signals.Protocol  `json:"top_movers"`
	TrendingRepos []signals.Repo      `json:"trending_repos"`
	RecentNews    []signals.Article   `json:"recent_news"`
}

// Build assembles the dashboard document from a finished run. The merged
// news list goes into a fresh slice so the append never writes through to
// the bundle's backing arrays.
func Build(report narrative.Report, bundle signals.Bundle, now time.Time) Document {
	news := make([]signals.Article, 0, maxRecentNews)
	news = append(news, head(bundle.Social.EcosystemArticles, maxNewsPerSource)...)
	news = append(news, head(bundle.Social.NewsArticles, maxNewsPerSource)...)
	if len(news) > maxRecentNews {
		news = news[:maxRecentNews]
	}

	return Document{
		GeneratedAt: now.Format(time.RFC3339),
		Analysis:    report,
		Highlights: Highlights{
			SolPrice:      bundle.Market.Sol,
			TVL:           bundle.Onchain.TVL,
			TopMovers:     head(bundle.Onchain.TopProtocols, maxHighlightMovers),
			TrendingRepos: head(bundle.Developer.TrendingNew, maxHighlightRepos),
			RecentNews:    news,
		},
	}
}

func head[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
