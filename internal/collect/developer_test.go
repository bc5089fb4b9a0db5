package collect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestDeveloperCollector(baseURL, token string) *DeveloperCollector {
	c := NewDeveloperCollector(token)
	c.baseURL = baseURL
	c.limiter = rate.NewLimiter(rate.Inf, 0)
	return c
}

func searchItems(items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"total_count": len(items), "items": items}
}

func TestSearchReposContractAndMapping(t *testing.T) {
	longDescription := strings.Repeat("d", 250)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "solana stars:>500" {
			t.Errorf("q: got %q", q.Get("q"))
		}
		if q.Get("sort") != "stars" || q.Get("order") != "desc" || q.Get("per_page") != "15" {
			t.Errorf("search params: %v", q)
		}
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Errorf("accept header: got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("no token configured, authorization should be empty")
		}
		json.NewEncoder(w).Encode(searchItems(map[string]interface{}{
			"full_name":         "anza-xyz/agave",
			"description":       longDescription,
			"stargazers_count":  4200,
			"forks_count":       1800,
			"language":          nil,
			"created_at":        "2024-02-01T00:00:00Z",
			"updated_at":        "2026-02-13T00:00:00Z",
			"pushed_at":         "2026-02-14T08:00:00Z",
			"html_url":          "https://github.com/anza-xyz/agave",
			"topics":            []string{"solana", "validator"},
			"open_issues_count": 321,
		}))
	}))
	defer srv.Close()

	c := newTestDeveloperCollector(srv.URL, "")
	repos := c.searchRepos(context.Background(), "solana stars:>500", "stars", searchPageSize)

	if len(repos) != 1 {
		t.Fatalf("got %d repos", len(repos))
	}
	r := repos[0]
	if r.Name != "anza-xyz/agave" || r.Stars != 4200 || r.Forks != 1800 || r.OpenIssues != 321 {
		t.Errorf("mapping: %+v", r)
	}
	if len(r.Description) != maxRepoDescription {
		t.Errorf("description length: got %d, want %d", len(r.Description), maxRepoDescription)
	}
	if r.Language != "" {
		t.Errorf("null language should map to empty, got %q", r.Language)
	}
	if r.URL != "https://github.com/anza-xyz/agave" {
		t.Errorf("url: got %q", r.URL)
	}
}

func TestSearchReposSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "token gh-secret" {
			t.Errorf("authorization: got %q", got)
		}
		json.NewEncoder(w).Encode(searchItems())
	}))
	defer srv.Close()

	c := newTestDeveloperCollector(srv.URL, "gh-secret")
	c.searchRepos(context.Background(), "solana", "stars", 5)
}

func TestSearchReposFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestDeveloperCollector(srv.URL, "")
	if repos := c.searchRepos(context.Background(), "solana", "stars", 5); len(repos) != 0 {
		t.Errorf("expected no repos on failure, got %d", len(repos))
	}
}

func TestDeveloperCollectBuildsDateCutoffQueries(t *testing.T) {
	var mu sync.Mutex
	var queries []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.Query().Get("q")+"|"+r.URL.Query().Get("sort"))
		mu.Unlock()
		json.NewEncoder(w).Encode(searchItems())
	}))
	defer srv.Close()

	c := newTestDeveloperCollector(srv.URL, "")
	c.now = func() time.Time {
		return time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	}

	rec := c.Collect(context.Background())

	mu.Lock()
	defer mu.Unlock()
	want := map[string]bool{
		"solana created:>2026-01-15|stars":  false,
		"solana pushed:>2026-01-31|updated": false,
		"solana stars:>500|stars":           false,
	}
	for _, q := range queries {
		if _, ok := want[q]; ok {
			want[q] = true
		}
	}
	for q, seen := range want {
		if !seen {
			t.Errorf("query never issued: %s", q)
		}
	}
	// 3 top-level searches plus one per topic vertical.
	if len(queries) != 3+len(ecosystemTopicQueries) {
		t.Errorf("got %d searches, want %d", len(queries), 3+len(ecosystemTopicQueries))
	}
	if rec.CollectedAt != "2026-02-14T12:00:00Z" {
		t.Errorf("collected_at: got %q", rec.CollectedAt)
	}
}

func TestEcosystemTopicsSummarizesAndSortsByStars(t *testing.T) {
	repoStars := map[string][]int{
		"solana defi": {10, 20, 30, 40},
		"solana nft":  {500},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if r.URL.Query().Get("per_page") != "5" {
			t.Errorf("topic searches should request 5 repos, got %q", r.URL.Query().Get("per_page"))
		}
		var items []map[string]interface{}
		for i, stars := range repoStars[q] {
			items = append(items, map[string]interface{}{
				"full_name":        q + "/repo" + string(rune('a'+i)),
				"stargazers_count": stars,
			})
		}
		json.NewEncoder(w).Encode(searchItems(items...))
	}))
	defer srv.Close()

	c := newTestDeveloperCollector(srv.URL, "")
	topics := c.ecosystemTopics(context.Background())

	if len(topics) != len(ecosystemTopicQueries) {
		t.Fatalf("got %d topic summaries", len(topics))
	}
	if topics[0].Topic != "nft" || topics[0].TotalStars != 500 {
		t.Errorf("first topic: %+v", topics[0])
	}
	if topics[1].Topic != "defi" || topics[1].TotalStars != 100 {
		t.Errorf("second topic: %+v", topics[1])
	}
	if topics[1].RepoCount != 4 {
		t.Errorf("defi repo_count: got %d", topics[1].RepoCount)
	}
	if len(topics[1].TopRepos) != topicTopRepos {
		t.Errorf("top_repos should cap at %d, got %d", topicTopRepos, len(topics[1].TopRepos))
	}
	// Starless topics keep query-list order behind the scored ones.
	if topics[2].Topic != "payments" {
		t.Errorf("stable order among zero-star topics broken: got %q", topics[2].Topic)
	}
	for _, s := range topics {
		if strings.HasPrefix(s.Topic, "solana") {
			t.Errorf("topic name should drop the solana prefix: %q", s.Topic)
		}
	}
}
