// Package digest renders a signal bundle into the bounded text block that
// feeds the narrative analyzer.
//
// Synthesize is a pure function of the bundle. No I/O, no clock, no
// randomness. Identical bundles render to byte-identical digests, which the
// prompt contract and the tests both rely on.
package digest

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hollowaylabs/sonar/internal/signals"
)

// Per-section truncation caps. These bound the digest size no matter how
// much raw data the adapters returned.
const (
	maxProtocols     = 15
	maxYields        = 10
	maxTrendingRepos = 10
	maxActiveRepos   = 10
	maxTokens        = 15
	maxCategories    = 10
	maxArticles      = 15
	maxNews          = 10
	maxGovernance    = 5

	maxRepoTopics  = 5
	maxDescription = 100
	maxSummary     = 150
)

// Synthesize renders the bundle into one labeled text digest. Sections
// always appear in the order onchain, developer, market, social.
func Synthesize(b signals.Bundle) string {
	var parts []string

	on := b.Onchain
	parts = append(parts, "## ONCHAIN SIGNALS")
	parts = append(parts, fmt.Sprintf("Solana TVL: %s", usd0(on.TVL.CurrentTVL)))
	parts = append(parts, fmt.Sprintf("  14d change: %s", pct(on.TVL.Change14d)))
	parts = append(parts, fmt.Sprintf("  30d change: %s", pct(on.TVL.Change30d)))

	parts = append(parts, "\nTop protocols by TVL movement (7d):")
	for _, p := range head(on.TopProtocols, maxProtocols) {
		parts = append(parts, fmt.Sprintf("  %s (%s): TVL %s, 7d: %s, 1d: %s",
			p.Name, p.Category, usd0(p.TVL), pct(p.Change7d), pct(p.Change1d)))
	}

	parts = append(parts, "\nTop yield opportunities:")
	for _, y := range head(on.Yields, maxYields) {
		parts = append(parts, fmt.Sprintf("  %s %s: APY %.1f%% (30d avg: %.1f%%), TVL %s",
			y.Project, y.Symbol, y.APY, y.APYMean30d, usd0(y.TVLUSD)))
	}

	// Key presence matters here. A measured zero TPS still prints.
	if on.Network.AvgTPS != nil {
		parts = append(parts, fmt.Sprintf("\nNetwork TPS (avg): %d", *on.Network.AvgTPS))
	}

	dev := b.Developer
	parts = append(parts, "\n## DEVELOPER SIGNALS")
	parts = append(parts, "Trending new Solana repos (last 30 days):")
	for _, r := range head(dev.TrendingNew, maxTrendingRepos) {
		parts = append(parts, fmt.Sprintf("  %s: ★%d | %s | %s",
			r.Name, r.Stars, orNA(r.Language), truncate(r.Description, maxDescription)))
		if len(r.Topics) > 0 {
			parts = append(parts, fmt.Sprintf("    topics: %s", strings.Join(head(r.Topics, maxRepoTopics), ", ")))
		}
	}

	parts = append(parts, "\nMost active repos (last 14 days):")
	for _, r := range head(dev.MostActive, maxActiveRepos) {
		parts = append(parts, fmt.Sprintf("  %s: ★%d | pushed: %s", r.Name, r.Stars, truncate(r.PushedAt, 10)))
	}

	parts = append(parts, "\nEcosystem topic breakdown:")
	for _, t := range dev.EcosystemTopics {
		parts = append(parts, fmt.Sprintf("  %s: %d repos, %d total stars", t.Topic, t.RepoCount, t.TotalStars))
	}

	m := b.Market
	parts = append(parts, "\n## MARKET SIGNALS")
	parts = append(parts, fmt.Sprintf("SOL: %s", usd2(m.Sol.PriceUSD)))
	parts = append(parts, fmt.Sprintf("  24h: %s, 7d: %s, 14d: %s, 30d: %s",
		pct(m.Sol.Change24h), pct(m.Sol.Change7d), pct(m.Sol.Change14d), pct(m.Sol.Change30d)))

	parts = append(parts, "\nTop Solana ecosystem tokens (by market cap):")
	for _, t := range head(m.EcosystemTokens, maxTokens) {
		parts = append(parts, fmt.Sprintf("  %s: $%.4f, 7d: %s, 14d: %s",
			t.Symbol, t.Price, pct(t.Change7d), pct(t.Change14d)))
	}

	if len(m.Trending) > 0 {
		parts = append(parts, "\nTrending Solana tokens on CoinGecko:")
		for _, t := range m.Trending {
			parts = append(parts, fmt.Sprintf("  %s (%s)", t.Name, t.Symbol))
		}
	}

	parts = append(parts, "\nRelevant categories:")
	for _, c := range head(m.Categories, maxCategories) {
		parts = append(parts, fmt.Sprintf("  %s: mcap change 24h: %s", c.Name, pct(c.MarketCapChange24h)))
	}

	so := b.Social
	parts = append(parts, "\n## SOCIAL & NEWS SIGNALS")
	parts = append(parts, "Recent ecosystem articles:")
	for _, a := range head(so.EcosystemArticles, maxArticles) {
		parts = append(parts, fmt.Sprintf("  [%s] %s", a.Source, a.Title))
		if a.Summary != "" {
			parts = append(parts, fmt.Sprintf("    %s", truncate(a.Summary, maxSummary)))
		}
	}

	parts = append(parts, "\nCrypto news mentioning Solana:")
	for _, a := range head(so.NewsArticles, maxNews) {
		parts = append(parts, fmt.Sprintf("  [%s] %s", a.Source, a.Title))
	}

	parts = append(parts, "\nGovernance (open SIMDs):")
	for _, g := range head(so.Governance, maxGovernance) {
		parts = append(parts, fmt.Sprintf("  %s (by %s)", g.Title, g.User))
	}

	return strings.Join(parts, "\n")
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// pct renders a percentage with explicit sign and one decimal place.
func pct(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// usd0 renders a dollar amount with thousands separators and no decimals.
func usd0(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// usd2 renders a dollar amount with thousands separators and exactly two
// decimals. humanize.Commaf drops trailing zeros, so the cents are carried
// separately.
func usd2(v float64) string {
	cents := int64(math.Round(v * 100))
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("$%s%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}
