package collect

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/hollowaylabs/sonar/internal/httpx"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	defillamaBase      = "https://api.llama.fi"
	defaultYieldsURL   = "https://yields.llama.fi/pools"
	defaultStablesURL  = "https://stablecoins.llama.fi/stablecoins?includePrices=true"
	defaultSolanaRPC   = "https://api.mainnet-beta.solana.com"
	tvlWindowDays      = 30
	maxProtocolResults = 30
	maxYieldResults    = 20
	maxStablecoins     = 10
	minProtocolTVL     = 1_000_000
	minPoolTVL         = 500_000
	rpcSampleCount     = 10
)

// OnchainCollector gathers chain TVL, protocol, yield, stablecoin and
// network signals from DeFiLlama and the Solana RPC.
type OnchainCollector struct {
	client *httpx.Client

	// Endpoints are fields so tests can point them at local servers.
	chartURL     string
	protocolsURL string
	yieldsURL    string
	stablesURL   string
	rpcURL       string

	now func() time.Time
}

// NewOnchainCollector creates a collector against the public APIs.
func NewOnchainCollector() *OnchainCollector {
	return &OnchainCollector{
		client:       httpx.NewClient(fetchTimeout),
		chartURL:     defillamaBase + "/v2/historicalChainTvl/Solana",
		protocolsURL: defillamaBase + "/protocols",
		yieldsURL:    defaultYieldsURL,
		stablesURL:   defaultStablesURL,
		rpcURL:       defaultSolanaRPC,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Collect gathers all onchain signals. Individual fetch failures degrade
// their own field and never abort the record.
func (c *OnchainCollector) Collect(ctx context.Context) signals.OnchainRecord {
	logging.Info("collecting onchain signals")

	rec := signals.OnchainRecord{
		TVL:          c.tvlHistory(ctx),
		TopProtocols: c.topProtocols(ctx),
		Yields:       c.yieldPools(ctx),
		Stablecoins:  c.stablecoinFlows(ctx),
		Network:      c.networkPerformance(ctx),
		CollectedAt:  c.now().Format(time.RFC3339),
	}

	logging.Info("onchain signals collected",
		"protocols", len(rec.TopProtocols),
		"yield_pools", len(rec.Yields))
	return rec
}

func (c *OnchainCollector) tvlHistory(ctx context.Context) signals.TVLSnapshot {
	var points []signals.TVLPoint
	if err := c.client.GetJSON(ctx, c.chartURL, nil, nil, &points); err != nil {
		logging.Warn("TVL history fetch failed", "error", err)
		return signals.TVLSnapshot{Error: "Failed to fetch TVL"}
	}
	return buildTVLSnapshot(points)
}

// buildTVLSnapshot reduces the full TVL series to the trailing 30 day
// window with 14d and 30d deltas. Short series fall back to the oldest
// retained point for both deltas.
func buildTVLSnapshot(points []signals.TVLPoint) signals.TVLSnapshot {
	if len(points) == 0 {
		return signals.TVLSnapshot{Error: "Failed to fetch TVL"}
	}
	recent := points
	if len(recent) > tvlWindowDays {
		recent = recent[len(recent)-tvlWindowDays:]
	}
	current := recent[len(recent)-1].TVL
	tvl14d := recent[0].TVL
	if len(recent) >= 14 {
		tvl14d = recent[len(recent)-14].TVL
	}
	tvl30d := recent[0].TVL
	return signals.TVLSnapshot{
		CurrentTVL: current,
		TVL14dAgo:  tvl14d,
		TVL30dAgo:  tvl30d,
		Change14d:  pctChange(current, tvl14d),
		Change30d:  pctChange(current, tvl30d),
		DataPoints: recent,
	}
}

// llamaProtocol is the subset of the DeFiLlama protocol listing we read.
// Numeric fields are pointers because the API returns null for some rows.
type llamaProtocol struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	TVL      *float64 `json:"tvl"`
	Change1d *float64 `json:"change_1d"`
	Change7d *float64 `json:"change_7d"`
	Chains   []string `json:"chains"`
	URL      string   `json:"url"`
}

func (c *OnchainCollector) topProtocols(ctx context.Context) []signals.Protocol {
	var raw []llamaProtocol
	if err := c.client.GetJSON(ctx, c.protocolsURL, nil, nil, &raw); err != nil {
		logging.Warn("protocol list fetch failed", "error", err)
		return nil
	}

	var solana []llamaProtocol
	for _, p := range raw {
		if hasChain(p.Chains, "Solana") && deref(p.TVL) > minProtocolTVL {
			solana = append(solana, p)
		}
	}
	// Biggest movers in either direction first.
	sort.SliceStable(solana, func(i, j int) bool {
		return math.Abs(deref(solana[i].Change7d)) > math.Abs(deref(solana[j].Change7d))
	})
	if len(solana) > maxProtocolResults {
		solana = solana[:maxProtocolResults]
	}

	out := make([]signals.Protocol, 0, len(solana))
	for _, p := range solana {
		category := p.Category
		if category == "" {
			category = "Unknown"
		}
		out = append(out, signals.Protocol{
			Name:     p.Name,
			Category: category,
			TVL:      math.Round(deref(p.TVL)),
			Change1d: round2(deref(p.Change1d)),
			Change7d: round2(deref(p.Change7d)),
			Chains:   p.Chains,
			URL:      p.URL,
		})
	}
	return out
}

type llamaPoolList struct {
	Data []llamaPool `json:"data"`
}

type llamaPool struct {
	Pool       string   `json:"pool"`
	Project    string   `json:"project"`
	Symbol     string   `json:"symbol"`
	Chain      string   `json:"chain"`
	TVLUSD     *float64 `json:"tvlUsd"`
	APY        *float64 `json:"apy"`
	APYMean30d *float64 `json:"apyMean30d"`
}

func (c *OnchainCollector) yieldPools(ctx context.Context) []signals.YieldPool {
	var raw llamaPoolList
	if err := c.client.GetJSON(ctx, c.yieldsURL, nil, nil, &raw); err != nil {
		logging.Warn("yield pool fetch failed", "error", err)
		return nil
	}

	var pools []llamaPool
	for _, p := range raw.Data {
		if p.Chain == "Solana" && deref(p.TVLUSD) > minPoolTVL {
			pools = append(pools, p)
		}
	}
	sort.SliceStable(pools, func(i, j int) bool {
		return math.Abs(deref(pools[i].APYMean30d)) > math.Abs(deref(pools[j].APYMean30d))
	})
	if len(pools) > maxYieldResults {
		pools = pools[:maxYieldResults]
	}

	out := make([]signals.YieldPool, 0, len(pools))
	for _, p := range pools {
		apy := deref(p.APY)
		mean := deref(p.APYMean30d)
		out = append(out, signals.YieldPool{
			Pool:        p.Pool,
			Project:     p.Project,
			Symbol:      p.Symbol,
			TVLUSD:      math.Round(deref(p.TVLUSD)),
			APY:         round2(apy),
			APYMean30d:  round2(mean),
			APYChange7d: round2(apy - mean),
		})
	}
	return out
}

type peggedAssetList struct {
	PeggedAssets []peggedAsset `json:"peggedAssets"`
}

type peggedAsset struct {
	Name             string                      `json:"name"`
	Symbol           string                      `json:"symbol"`
	ChainCirculating map[string]chainCirculation `json:"chainCirculating"`
}

type chainCirculation struct {
	Current struct {
		PeggedUSD float64 `json:"peggedUSD"`
	} `json:"current"`
}

func (c *OnchainCollector) stablecoinFlows(ctx context.Context) signals.StablecoinSnapshot {
	var raw peggedAssetList
	if err := c.client.GetJSON(ctx, c.stablesURL, nil, nil, &raw); err != nil {
		logging.Warn("stablecoin fetch failed", "error", err)
		return signals.StablecoinSnapshot{Error: "Failed to fetch stablecoin data"}
	}

	var stables []signals.Stablecoin
	for _, s := range raw.PeggedAssets {
		circ, ok := s.ChainCirculating["Solana"]
		if !ok {
			continue
		}
		stables = append(stables, signals.Stablecoin{
			Name:        s.Name,
			Symbol:      s.Symbol,
			Circulating: circ.Current.PeggedUSD,
		})
	}
	sort.SliceStable(stables, func(i, j int) bool {
		return stables[i].Circulating > stables[j].Circulating
	})
	if len(stables) > maxStablecoins {
		stables = stables[:maxStablecoins]
	}
	return signals.StablecoinSnapshot{Stablecoins: stables}
}

type performanceReply struct {
	Result []performanceSample `json:"result"`
}

type performanceSample struct {
	NumTransactions  float64 `json:"numTransactions"`
	SamplePeriodSecs float64 `json:"samplePeriodSecs"`
}

func (c *OnchainCollector) networkPerformance(ctx context.Context) signals.NetworkSnapshot {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getRecentPerformanceSamples",
		"params":  []int{rpcSampleCount},
	}
	var reply performanceReply
	if err := c.client.PostJSON(ctx, c.rpcURL, body, &reply); err != nil {
		logging.Warn("RPC performance fetch failed", "error", err)
		return signals.NetworkSnapshot{Error: err.Error()}
	}
	if len(reply.Result) == 0 {
		return signals.NetworkSnapshot{Error: "No performance data"}
	}

	var sum float64
	for _, s := range reply.Result {
		if s.SamplePeriodSecs > 0 {
			sum += s.NumTransactions / s.SamplePeriodSecs
		}
	}
	avg := int(math.Round(sum / float64(len(reply.Result))))
	return signals.NetworkSnapshot{AvgTPS: &avg, Samples: len(reply.Result)}
}

func hasChain(chains []string, name string) bool {
	for _, c := range chains {
		if c == name {
			return true
		}
	}
	return false
}

// deref unwraps an optional upstream number, treating null as zero.
func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// pctChange returns the percent change from base to v rounded to two
// decimals. A zero base yields zero rather than an Inf that would poison
// JSON encoding downstream.
func pctChange(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return round2((v - base) / base * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
