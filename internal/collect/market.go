package collect

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hollowaylabs/sonar/internal/httpx"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	defaultCoinGeckoAPI = "https://api.coingecko.com/api/v3"
	maxEcosystemTokens  = 30
	maxCategoryResults  = 15
)

// categoryKeywords selects relevant CoinGecko categories by substring, so
// "ai" also catches names like "Chain Abstraction".
var categoryKeywords = []string{
	"solana", "defi", "liquid staking", "dex", "lending",
	"yield", "meme", "ai", "depin", "rwa",
}

// MarketCollector gathers token and category data from CoinGecko.
type MarketCollector struct {
	client  *httpx.Client
	baseURL string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewMarketCollector creates a collector against the public CoinGecko API.
func NewMarketCollector() *MarketCollector {
	return &MarketCollector{
		client:  httpx.NewClient(fetchTimeout),
		baseURL: defaultCoinGeckoAPI,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1), // free tier tolerates ~30 calls/min
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Collect gathers all market signals. Failed fetches degrade to empty
// fields and never abort the record.
func (c *MarketCollector) Collect(ctx context.Context) signals.MarketRecord {
	logging.Info("collecting market signals")

	rec := signals.MarketRecord{
		Sol:             c.solPriceData(ctx),
		EcosystemTokens: c.ecosystemTokens(ctx),
		Trending:        c.trendingTokens(ctx),
		Categories:      c.defiCategories(ctx),
		CollectedAt:     c.now().Format(time.RFC3339),
	}

	logging.Info("market signals collected",
		"ecosystem_tokens", len(rec.EcosystemTokens),
		"trending", len(rec.Trending))
	return rec
}

func (c *MarketCollector) get(ctx context.Context, path string, params url.Values, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return c.client.GetJSON(ctx, c.baseURL+path, params, nil, v)
}

type geckoCoinDetail struct {
	MarketData struct {
		CurrentPrice        map[string]float64 `json:"current_price"`
		MarketCap           map[string]float64 `json:"market_cap"`
		TotalVolume         map[string]float64 `json:"total_volume"`
		Change24h           *float64           `json:"price_change_percentage_24h"`
		Change7d            *float64           `json:"price_change_percentage_7d"`
		Change14d           *float64           `json:"price_change_percentage_14d"`
		Change30d           *float64           `json:"price_change_percentage_30d"`
		ATH                 map[string]float64 `json:"ath"`
		ATHChangePercentage map[string]float64 `json:"ath_change_percentage"`
	} `json:"market_data"`
}

func (c *MarketCollector) solPriceData(ctx context.Context) signals.SolSnapshot {
	params := url.Values{}
	params.Set("localization", "false")
	params.Set("tickers", "false")
	params.Set("community_data", "false")

	var detail geckoCoinDetail
	if err := c.get(ctx, "/coins/solana", params, &detail); err != nil {
		logging.Warn("SOL price fetch failed", "error", err)
		return signals.SolSnapshot{Error: "Failed to fetch SOL data"}
	}

	m := detail.MarketData
	return signals.SolSnapshot{
		PriceUSD:     m.CurrentPrice["usd"],
		MarketCap:    m.MarketCap["usd"],
		Volume24h:    m.TotalVolume["usd"],
		Change24h:    round2(deref(m.Change24h)),
		Change7d:     round2(deref(m.Change7d)),
		Change14d:    round2(deref(m.Change14d)),
		Change30d:    round2(deref(m.Change30d)),
		ATH:          m.ATH["usd"],
		ATHChangePct: round2(m.ATHChangePercentage["usd"]),
	}
}

type geckoMarketRow struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  float64  `json:"current_price"`
	MarketCap     float64  `json:"market_cap"`
	MarketCapRank int      `json:"market_cap_rank"`
	TotalVolume   float64  `json:"total_volume"`
	Change24h     *float64 `json:"price_change_percentage_24h"`
	Change7d      *float64 `json:"price_change_percentage_7d_in_currency"`
	Change14d     *float64 `json:"price_change_percentage_14d_in_currency"`
	Change30d     *float64 `json:"price_change_percentage_30d_in_currency"`
}

func (c *MarketCollector) ecosystemTokens(ctx context.Context) []signals.Token {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("category", "solana-ecosystem")
	params.Set("order", "market_cap_desc")
	params.Set("per_page", fmt.Sprint(maxEcosystemTokens))
	params.Set("page", "1")
	params.Set("sparkline", "false")
	params.Set("price_change_percentage", "7d,14d,30d")

	var rows []geckoMarketRow
	if err := c.get(ctx, "/coins/markets", params, &rows); err != nil {
		logging.Warn("ecosystem token fetch failed", "error", err)
		return nil
	}

	out := make([]signals.Token, 0, len(rows))
	for _, t := range rows {
		out = append(out, signals.Token{
			ID:            t.ID,
			Symbol:        strings.ToUpper(t.Symbol),
			Name:          t.Name,
			Price:         t.CurrentPrice,
			MarketCap:     t.MarketCap,
			MarketCapRank: t.MarketCapRank,
			Volume24h:     t.TotalVolume,
			Change24h:     round2(deref(t.Change24h)),
			Change7d:      round2(deref(t.Change7d)),
			Change14d:     round2(deref(t.Change14d)),
			Change30d:     round2(deref(t.Change30d)),
		})
	}
	return out
}

type trendingReply struct {
	Coins []struct {
		Item trendingItem `json:"item"`
	} `json:"coins"`
}

type trendingItem struct {
	Name          string                 `json:"name"`
	Symbol        string                 `json:"symbol"`
	MarketCapRank int                    `json:"market_cap_rank"`
	Score         int                    `json:"score"`
	Platforms     map[string]interface{} `json:"platforms"`
}

func (c *MarketCollector) trendingTokens(ctx context.Context) []signals.TrendingToken {
	var reply trendingReply
	if err := c.get(ctx, "/search/trending", nil, &reply); err != nil {
		logging.Warn("trending token fetch failed", "error", err)
		return nil
	}

	var out []signals.TrendingToken
	for _, coin := range reply.Coins {
		if !trendingOnSolana(coin.Item.Platforms) {
			continue
		}
		out = append(out, signals.TrendingToken{
			Name:          coin.Item.Name,
			Symbol:        coin.Item.Symbol,
			MarketCapRank: coin.Item.MarketCapRank,
			Score:         coin.Item.Score,
		})
	}
	return out
}

// trendingOnSolana reports whether a trending entry lists Solana as a
// platform, either as the key or inside any platform value.
func trendingOnSolana(platforms map[string]interface{}) bool {
	if _, ok := platforms["solana"]; ok {
		return true
	}
	for _, v := range platforms {
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), "solana") {
			return true
		}
	}
	return false
}

type geckoCategory struct {
	Name               string   `json:"name"`
	MarketCap          float64  `json:"market_cap"`
	MarketCapChange24h *float64 `json:"market_cap_change_24h"`
	Volume24h          float64  `json:"volume_24h"`
	Top3Coins          []string `json:"top_3_coins"`
}

func (c *MarketCollector) defiCategories(ctx context.Context) []signals.MarketCategory {
	var rows []geckoCategory
	if err := c.get(ctx, "/coins/categories", nil, &rows); err != nil {
		logging.Warn("category fetch failed", "error", err)
		return nil
	}

	var relevant []geckoCategory
	for _, cat := range rows {
		if matchesCategoryKeyword(cat.Name) {
			relevant = append(relevant, cat)
		}
	}
	if len(relevant) > maxCategoryResults {
		relevant = relevant[:maxCategoryResults]
	}

	out := make([]signals.MarketCategory, 0, len(relevant))
	for _, cat := range relevant {
		top := cat.Top3Coins
		if len(top) > 3 {
			top = top[:3]
		}
		out = append(out, signals.MarketCategory{
			Name:               cat.Name,
			MarketCap:          cat.MarketCap,
			MarketCapChange24h: round2(deref(cat.MarketCapChange24h)),
			Volume24h:          cat.Volume24h,
			Top3Coins:          top,
		})
	}
	return out
}

func matchesCategoryKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
