package site

import (
	"fmt"
	"testing"
	"time"

	"github.com/hollowaylabs/sonar/internal/narrative"
	"github.com/hollowaylabs/sonar/internal/signals"
)

func articles(titles ...string) []signals.Article {
	out := make([]signals.Article, 0, len(titles))
	for _, title := range titles {
		out = append(out, signals.Article{Title: title})
	}
	return out
}

func TestBuildMergesRecentNews(t *testing.T) {
	bundle := signals.Bundle{}
	bundle.Social.EcosystemArticles = articles("A", "B", "C", "D", "E", "F")
	bundle.Social.NewsArticles = articles("X", "Y")

	doc := Build(narrative.Report{}, bundle, time.Now())

	got := make([]string, 0, len(doc.Highlights.RecentNews))
	for _, a := range doc.Highlights.RecentNews {
		got = append(got, a.Title)
	}
	want := []string{"A", "B", "C", "D", "E", "X", "Y"}
	if len(got) != len(want) {
		t.Fatalf("recent_news: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("recent_news: got %v, want %v", got, want)
		}
	}
	// The sixth ecosystem article must not have been clobbered by the merge.
	if bundle.Social.EcosystemArticles[5].Title != "F" {
		t.Errorf("bundle mutated: %q", bundle.Social.EcosystemArticles[5].Title)
	}
}

func TestBuildCapsHighlights(t *testing.T) {
	bundle := signals.Bundle{}
	for i := 0; i < 8; i++ {
		bundle.Onchain.TopProtocols = append(bundle.Onchain.TopProtocols, signals.Protocol{Name: fmt.Sprintf("P%d", i)})
		bundle.Developer.TrendingNew = append(bundle.Developer.TrendingNew, signals.Repo{Name: fmt.Sprintf("r/%d", i)})
	}
	bundle.Social.EcosystemArticles = articles("1", "2", "3", "4", "5", "6", "7")
	bundle.Social.NewsArticles = articles("a", "b", "c", "d", "e", "f")

	doc := Build(narrative.Report{}, bundle, time.Now())

	if len(doc.Highlights.TopMovers) != maxHighlightMovers {
		t.Errorf("top_movers: got %d", len(doc.Highlights.TopMovers))
	}
	if doc.Highlights.TopMovers[0].Name != "P0" {
		t.Errorf("top_movers should keep aggregate order, got %q first", doc.Highlights.TopMovers[0].Name)
	}
	if len(doc.Highlights.TrendingRepos) != maxHighlightRepos {
		t.Errorf("trending_repos: got %d", len(doc.Highlights.TrendingRepos))
	}
	if len(doc.Highlights.RecentNews) != maxRecentNews {
		t.Errorf("recent_news: got %d", len(doc.Highlights.RecentNews))
	}
}

func TestBuildCarriesAnalysisAndSnapshots(t *testing.T) {
	report := narrative.Report{ExecutiveSummary: "DeFi yields compressing."}
	bundle := signals.Bundle{}
	bundle.Market.Sol = signals.SolSnapshot{PriceUSD: 149.9}
	bundle.Onchain.TVL = signals.TVLSnapshot{CurrentTVL: 5e9, Change14d: 11.11}

	now := time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)
	doc := Build(report, bundle, now)

	if doc.GeneratedAt != "2026-02-14T18:00:00Z" {
		t.Errorf("generated_at: got %q", doc.GeneratedAt)
	}
	if doc.Analysis.ExecutiveSummary != "DeFi yields compressing." {
		t.Errorf("analysis not carried: %+v", doc.Analysis)
	}
	if doc.Highlights.SolPrice.PriceUSD != 149.9 {
		t.Errorf("sol_price: %+v", doc.Highlights.SolPrice)
	}
	if doc.Highlights.TVL.Change14d != 11.11 {
		t.Errorf("tvl: %+v", doc.Highlights.TVL)
	}
}

func TestBuildEmptyBundle(t *testing.T) {
	doc := Build(narrative.Report{}, signals.Bundle{}, time.Now())

	if len(doc.Highlights.TopMovers) != 0 || len(doc.Highlights.TrendingRepos) != 0 || len(doc.Highlights.RecentNews) != 0 {
		t.Errorf("empty bundle should project empty highlights: %+v", doc.Highlights)
	}
}
