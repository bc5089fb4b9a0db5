package collect

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hollowaylabs/sonar/internal/httpx"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	defaultGitHubAPI     = "https://api.github.com"
	searchPageSize       = 15
	topicPageSize        = 5
	topicTopRepos        = 3
	maxTopicFetches      = 4
	maxRepoDescription   = 200
	newRepoWindowDays    = 30
	activeRepoWindowDays = 14
)

// ecosystemTopicQueries are the vertical searches behind the topic
// summaries. The "solana " prefix is stripped for the reported topic name.
var ecosystemTopicQueries = []string{
	"solana defi",
	"solana nft",
	"solana payments",
	"solana ai agent",
	"solana mobile",
	"solana depin",
	"solana gaming",
	"solana rwa",
	"solana blink",
	"solana token-extensions",
}

// DeveloperCollector gathers repository activity from the GitHub search
// API. A token is optional and only raises the search rate limit.
type DeveloperCollector struct {
	client  *httpx.Client
	baseURL string
	token   string
	limiter *rate.Limiter
	now     func() time.Time
}

// NewDeveloperCollector creates a collector against the public GitHub API.
func NewDeveloperCollector(token string) *DeveloperCollector {
	return &DeveloperCollector{
		client:  httpx.NewClient(fetchTimeout),
		baseURL: defaultGitHubAPI,
		token:   token,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1), // search API is strictly limited
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Collect gathers all developer signals. Failed searches degrade to empty
// lists and never abort the record.
func (c *DeveloperCollector) Collect(ctx context.Context) signals.DeveloperRecord {
	logging.Info("collecting developer signals")

	now := c.now()
	createdCutoff := now.AddDate(0, 0, -newRepoWindowDays).Format("2006-01-02")
	pushedCutoff := now.AddDate(0, 0, -activeRepoWindowDays).Format("2006-01-02")

	rec := signals.DeveloperRecord{
		TrendingNew:     c.searchRepos(ctx, "solana created:>"+createdCutoff, "stars", searchPageSize),
		MostActive:      c.searchRepos(ctx, "solana pushed:>"+pushedCutoff, "updated", searchPageSize),
		HighStar:        c.searchRepos(ctx, "solana stars:>500", "stars", searchPageSize),
		EcosystemTopics: c.ecosystemTopics(ctx),
		CollectedAt:     now.Format(time.RFC3339),
	}

	logging.Info("developer signals collected",
		"trending_new", len(rec.TrendingNew),
		"most_active", len(rec.MostActive))
	return rec
}

type repoSearchReply struct {
	Items []githubRepo `json:"items"`
}

type githubRepo struct {
	FullName        string   `json:"full_name"`
	Description     string   `json:"description"`
	StargazersCount int      `json:"stargazers_count"`
	ForksCount      int      `json:"forks_count"`
	Language        string   `json:"language"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	PushedAt        string   `json:"pushed_at"`
	HTMLURL         string   `json:"html_url"`
	Topics          []string `json:"topics"`
	OpenIssuesCount int      `json:"open_issues_count"`
}

func (c *DeveloperCollector) searchRepos(ctx context.Context, query, sortBy string, limit int) []signals.Repo {
	if err := c.limiter.Wait(ctx); err != nil {
		logging.Warn("GitHub search aborted", "query", query, "error", err)
		return nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", sortBy)
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(limit))

	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		header.Set("Authorization", "token "+c.token)
	}

	var reply repoSearchReply
	if err := c.client.GetJSON(ctx, c.baseURL+"/search/repositories", params, header, &reply); err != nil {
		logging.Warn("GitHub search failed", "query", query, "error", err)
		return nil
	}

	out := make([]signals.Repo, 0, len(reply.Items))
	for _, r := range reply.Items {
		out = append(out, signals.Repo{
			Name:        r.FullName,
			Description: truncate(r.Description, maxRepoDescription),
			Stars:       r.StargazersCount,
			Forks:       r.ForksCount,
			Language:    r.Language,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
			PushedAt:    r.PushedAt,
			URL:         r.HTMLURL,
			Topics:      r.Topics,
			OpenIssues:  r.OpenIssuesCount,
		})
	}
	return out
}

// ecosystemTopics runs all vertical searches and summarizes each. Indexed
// slots keep query order stable before the final star sort; the shared
// limiter spaces the underlying requests regardless of fan-out.
func (c *DeveloperCollector) ecosystemTopics(ctx context.Context) []signals.TopicSummary {
	summaries := make([]signals.TopicSummary, len(ecosystemTopicQueries))

	var g errgroup.Group
	g.SetLimit(maxTopicFetches)
	for i, query := range ecosystemTopicQueries {
		i, query := i, query // per-iteration copies; required while building with Go <1.22
		g.Go(func() error {
			repos := c.searchRepos(ctx, query, "stars", topicPageSize)
			total := 0
			for _, r := range repos {
				total += r.Stars
			}
			top := repos
			if len(top) > topicTopRepos {
				top = top[:topicTopRepos]
			}
			summaries[i] = signals.TopicSummary{
				Topic:      strings.TrimPrefix(query, "solana "),
				RepoCount:  len(repos),
				TopRepos:   top,
				TotalStars: total,
			}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalStars > summaries[j].TotalStars
	})
	return summaries
}
