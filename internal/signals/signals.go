// Package signals defines the typed records produced by the source adapters
// and the bundle that carries one collection run end to end.
//
// JSON tags match the artifact layout on disk (data/signals.json), so a
// bundle round-trips through Save/Load without loss.
package signals

// Category identifies one of the four signal domains.
type Category string

const (
	CategoryOnchain   Category = "onchain"
	CategoryDeveloper Category = "developer"
	CategoryMarket    Category = "market"
	CategorySocial    Category = "social"
)

// Categories lists the four domains in digest order.
var Categories = []Category{CategoryOnchain, CategoryDeveloper, CategoryMarket, CategorySocial}

// Bundle holds one run's worth of signals across all categories.
// It is built once per run and not mutated after aggregation completes.
type Bundle struct {
	Onchain     OnchainRecord   `json:"onchain"`
	Developer   DeveloperRecord `json:"developer"`
	Market      MarketRecord    `json:"market"`
	Social      SocialRecord    `json:"social"`
	CollectedAt string          `json:"collected_at"` // RFC 3339 UTC
}

// SignalCount reports how many discrete signal entries the bundle carries.
// Only top-level sequences count toward the total. Nested lists inside
// sub-snapshots (TVL data points, stablecoin breakdowns, topic repos) are
// detail for those entries, not signals of their own.
func (b Bundle) SignalCount() int {
	return b.Onchain.SignalCount() +
		b.Developer.SignalCount() +
		b.Market.SignalCount() +
		b.Social.SignalCount()
}

// OnchainRecord carries DeFiLlama and Solana RPC derived signals.
type OnchainRecord struct {
	TVL          TVLSnapshot        `json:"tvl"`
	TopProtocols []Protocol         `json:"top_protocols"`
	Yields       []YieldPool        `json:"yields"`
	Stablecoins  StablecoinSnapshot `json:"stablecoins"`
	Network      NetworkSnapshot    `json:"network"`
	CollectedAt  string             `json:"collected_at"`
}

func (r OnchainRecord) SignalCount() int {
	return len(r.TopProtocols) + len(r.Yields)
}

// TVLSnapshot summarizes Solana chain TVL over the trailing 30 days.
type TVLSnapshot struct {
	CurrentTVL float64    `json:"current_tvl"`
	TVL14dAgo  float64    `json:"tvl_14d_ago"`
	TVL30dAgo  float64    `json:"tvl_30d_ago"`
	Change14d  float64    `json:"change_14d_pct"`
	Change30d  float64    `json:"change_30d_pct"`
	DataPoints []TVLPoint `json:"data_points,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// TVLPoint is one day of chain TVL.
type TVLPoint struct {
	Date int64   `json:"date"` // unix seconds
	TVL  float64 `json:"tvl"`
}

// Protocol is a Solana protocol ranked by TVL movement.
type Protocol struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	TVL      float64  `json:"tvl"`
	Change1d float64  `json:"change_1d"`
	Change7d float64  `json:"change_7d"`
	Chains   []string `json:"chains"`
	URL      string   `json:"url"`
}

// YieldPool is a Solana DeFi pool ranked by 30-day mean APY.
type YieldPool struct {
	Pool        string  `json:"pool"`
	Project     string  `json:"project"`
	Symbol      string  `json:"symbol"`
	TVLUSD      float64 `json:"tvl_usd"`
	APY         float64 `json:"apy"`
	APYMean30d  float64 `json:"apy_mean_30d"`
	APYChange7d float64 `json:"apy_change_7d"`
}

// StablecoinSnapshot lists the largest stablecoins circulating on Solana.
type StablecoinSnapshot struct {
	Stablecoins []Stablecoin `json:"stablecoins,omitempty"`
	Error       string       `json:"error,omitempty"`
}

type Stablecoin struct {
	Name        string  `json:"name"`
	Symbol      string  `json:"symbol"`
	Circulating float64 `json:"circulating_on_solana"`
}

// NetworkSnapshot carries recent network throughput from the Solana RPC.
// AvgTPS is a pointer so an absent reading is distinguishable from zero.
type NetworkSnapshot struct {
	AvgTPS  *int   `json:"avg_tps,omitempty"`
	Samples int    `json:"samples,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeveloperRecord carries GitHub search derived signals.
type DeveloperRecord struct {
	TrendingNew     []Repo         `json:"trending_new"`
	MostActive      []Repo         `json:"most_active"`
	HighStar        []Repo         `json:"high_star"`
	EcosystemTopics []TopicSummary `json:"ecosystem_topics"`
	CollectedAt     string         `json:"collected_at"`
}

func (r DeveloperRecord) SignalCount() int {
	return len(r.TrendingNew) + len(r.MostActive) + len(r.HighStar) + len(r.EcosystemTopics)
}

// Repo is a normalized GitHub repository search result.
type Repo struct {
	Name        string   `json:"name"` // owner/repo
	Description string   `json:"description"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	PushedAt    string   `json:"pushed_at"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics"`
	OpenIssues  int      `json:"open_issues"`
}

// TopicSummary aggregates search results for one ecosystem vertical.
type TopicSummary struct {
	Topic      string `json:"topic"`
	RepoCount  int    `json:"repo_count"`
	TopRepos   []Repo `json:"top_repos"`
	TotalStars int    `json:"total_stars"`
}

// MarketRecord carries CoinGecko derived signals.
type MarketRecord struct {
	Sol             SolSnapshot      `json:"sol"`
	EcosystemTokens []Token          `json:"ecosystem_tokens"`
	Trending        []TrendingToken  `json:"trending"`
	Categories      []MarketCategory `json:"categories"`
	CollectedAt     string           `json:"collected_at"`
}

func (r MarketRecord) SignalCount() int {
	return len(r.EcosystemTokens) + len(r.Trending) + len(r.Categories)
}

// SolSnapshot is SOL's own price and market data.
type SolSnapshot struct {
	PriceUSD     float64 `json:"price_usd"`
	MarketCap    float64 `json:"market_cap"`
	Volume24h    float64 `json:"volume_24h"`
	Change24h    float64 `json:"change_24h"`
	Change7d     float64 `json:"change_7d"`
	Change14d    float64 `json:"change_14d"`
	Change30d    float64 `json:"change_30d"`
	ATH          float64 `json:"ath"`
	ATHChangePct float64 `json:"ath_change_pct"`
	Error        string  `json:"error,omitempty"`
}

// Token is a Solana ecosystem token ranked by market cap.
type Token struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"` // upper-cased
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	MarketCap     float64 `json:"market_cap"`
	MarketCapRank int     `json:"market_cap_rank"`
	Volume24h     float64 `json:"volume_24h"`
	Change24h     float64 `json:"change_24h"`
	Change7d      float64 `json:"change_7d"`
	Change14d     float64 `json:"change_14d"`
	Change30d     float64 `json:"change_30d"`
}

// TrendingToken is a CoinGecko trending entry on Solana.
type TrendingToken struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Score         int    `json:"score"`
}

// MarketCategory is a token category relevant to the ecosystem.
type MarketCategory struct {
	Name               string   `json:"name"`
	MarketCap          float64  `json:"market_cap"`
	MarketCapChange24h float64  `json:"market_cap_change_24h"`
	Volume24h          float64  `json:"volume_24h"`
	Top3Coins          []string `json:"top_3_coins"`
}

// SocialRecord carries RSS, news, and governance signals.
type SocialRecord struct {
	EcosystemArticles []Article  `json:"ecosystem_articles"`
	NewsArticles      []Article  `json:"news_articles"`
	Governance        []Proposal `json:"governance"`
	CollectedAt       string     `json:"collected_at"`
}

func (r SocialRecord) SignalCount() int {
	return len(r.EcosystemArticles) + len(r.NewsArticles) + len(r.Governance)
}

// Article is a normalized feed entry from an ecosystem blog or news outlet.
type Article struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Published string `json:"published"`
	Summary   string `json:"summary"`
}

// Proposal is an open SIMD pull request.
type Proposal struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	CreatedAt string   `json:"created_at"`
	User      string   `json:"user"`
	Labels    []string `json:"labels"`
}
