// Package e2e exercises the whole pipeline through the coordinator, with
// only the upstream collection stubbed out.
package e2e

import (
	"github.com/hollowaylabs/sonar/internal/signals"
)

// fixedBundle is a deterministic bundle covering all four categories,
// including the shapes that tend to drift in a JSON round trip: pointer
// fields, empty non-nil slices, absent slices, and floats with fractions.
func fixedBundle() signals.Bundle {
	tps := 3200
	return signals.Bundle{
		Onchain: signals.OnchainRecord{
			TVL: signals.TVLSnapshot{
				CurrentTVL: 5.2e9,
				TVL14dAgo:  4.9e9,
				TVL30dAgo:  4.5e9,
				Change14d:  6.12,
				Change30d:  15.56,
				DataPoints: []signals.TVLPoint{
					{Date: 1767225600, TVL: 4.5e9},
					{Date: 1770854400, TVL: 5.2e9},
				},
			},
			TopProtocols: []signals.Protocol{
				{Name: "Jito", Category: "Liquid Staking", TVL: 2.1e9, Change1d: 1.2, Change7d: -8.4, Chains: []string{"Solana"}},
				{Name: "Kamino", Category: "Lending", TVL: 1.4e9, Change1d: 0.5, Change7d: 6.0, Chains: []string{"Solana"}},
			},
			Yields: []signals.YieldPool{
				{Pool: "SOL", Project: "marinade", Symbol: "MSOL", TVLUSD: 9.1e8, APY: 7.25, APYMean30d: 6.8, APYChange7d: 0.45},
			},
			Stablecoins: signals.StablecoinSnapshot{
				Stablecoins: []signals.Stablecoin{
					{Name: "USD Coin", Symbol: "USDC", Circulating: 2.8e9},
					{Name: "Tether", Symbol: "USDT", Circulating: 1.1e9},
				},
			},
			Network:     signals.NetworkSnapshot{AvgTPS: &tps, Samples: 10},
			CollectedAt: "2026-02-14T09:30:00Z",
		},
		Developer: signals.DeveloperRecord{
			TrendingNew: []signals.Repo{
				{Name: "anza-xyz/agave", Description: "Solana validator client", Stars: 420, Language: "Rust", URL: "https://github.com/anza-xyz/agave"},
			},
			MostActive: []signals.Repo{
				{Name: "jito-foundation/jito-solana", Stars: 310, Language: "Rust"},
			},
			HighStar: []signals.Repo{},
			EcosystemTopics: []signals.TopicSummary{
				{Topic: "defi", RepoCount: 4, TotalStars: 1200, TopRepos: []signals.Repo{{Name: "kamino-finance/klend", Stars: 600}}},
			},
			CollectedAt: "2026-02-14T09:30:00Z",
		},
		Market: signals.MarketRecord{
			Sol: signals.SolSnapshot{
				PriceUSD: 151.5, MarketCap: 7.1e10, Volume24h: 3.2e9,
				Change24h: 1.4, Change7d: -2.25, ATH: 293.31, ATHChangePct: -48.35,
			},
			EcosystemTokens: []signals.Token{
				{ID: "jupiter-exchange-solana", Symbol: "JUP", Name: "Jupiter", Price: 0.52, MarketCap: 1.4e9, Change24h: 3.3, Change7d: 12.0},
				{ID: "bonk", Symbol: "BONK", Name: "Bonk", Price: 0.000021, MarketCap: 1.6e9, Change24h: -5.5, Change7d: 8.75},
			},
			Categories: []signals.MarketCategory{
				{Name: "Liquid Staking Tokens", MarketCap: 5.4e9, MarketCapChange24h: 2.75, Volume24h: 4.1e8, Top3Coins: []string{"msol", "jitosol", "bsol"}},
			},
			CollectedAt: "2026-02-14T09:30:00Z",
		},
		Social: signals.SocialRecord{
			EcosystemArticles: []signals.Article{
				{Source: "Solana Foundation", Title: "Firedancer hits testnet milestone", URL: "https://solana.com/news/fd", Published: "Tue, 10 Feb 2026 08:00:00 GMT", Summary: "Second validator client advances."},
				{Source: "Jito Blog", Title: "Restaking mainnet launch", URL: "https://jito.network/blog/restaking", Published: "Wed, 11 Feb 2026 10:00:00 GMT", Summary: "TipRouter goes live."},
			},
			NewsArticles: []signals.Article{
				{Source: "CoinDesk Solana", Title: "SOL ETF filing advances", URL: "https://coindesk.com/sol-etf", Published: "Thu, 12 Feb 2026 12:00:00 GMT", Summary: "Issuers amend S-1s."},
			},
			Governance: []signals.Proposal{
				{Title: "SIMD-0123: Dynamic base fees", URL: "https://github.com/solana-foundation/solana-improvement-documents/pull/123", CreatedAt: "2026-02-01T00:00:00Z", User: "solandy", Labels: []string{"standard"}},
			},
			CollectedAt: "2026-02-14T09:30:00Z",
		},
		CollectedAt: "2026-02-14T09:30:00Z",
	}
}
