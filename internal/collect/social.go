package collect

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/hollowaylabs/sonar/internal/httpx"
	"github.com/hollowaylabs/sonar/internal/logging"
	"github.com/hollowaylabs/sonar/internal/signals"
)

const (
	defaultGovernanceURL = "https://api.github.com/repos/solana-foundation/solana-improvement-documents/pulls"
	maxArticlesPerFeed   = 10
	maxSummaryChars      = 500
	maxGovernancePulls   = 10
)

// FeedSource names one RSS or Atom feed. Scoped feeds already cover only
// the Solana ecosystem and skip the keyword filter.
type FeedSource struct {
	Name   string
	URL    string
	Scoped bool
}

// ecosystemFeeds are first-party Solana project blogs.
var ecosystemFeeds = []FeedSource{
	{Name: "Solana Foundation", URL: "https://solana.com/news/rss.xml"},
	{Name: "Helius Blog", URL: "https://www.helius.dev/blog/rss.xml"},
	{Name: "Jito Blog", URL: "https://www.jito.network/blog/rss.xml"},
	{Name: "Marinade", URL: "https://blog.marinade.finance/rss/"},
	{Name: "Jupiter", URL: "https://www.jupresear.ch/latest.rss"},
}

// newsFeeds are crypto media outlets. General feeds are filtered down to
// ecosystem coverage by keyword.
var newsFeeds = []FeedSource{
	{Name: "CoinDesk Solana", URL: "https://www.coindesk.com/tag/solana/feed/", Scoped: true},
	{Name: "TheBlock", URL: "https://www.theblock.co/rss/all"},
}

// solanaKeywords mark an article as ecosystem coverage when any appears in
// its title or summary.
var solanaKeywords = []string{"solana", "sol", "jupiter", "jito", "raydium", "phantom", "marinade"}

var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// SocialCollector gathers blog posts, news coverage and open governance
// proposals.
type SocialCollector struct {
	client         *httpx.Client
	ecosystemFeeds []FeedSource
	newsFeeds      []FeedSource
	governanceURL  string
	now            func() time.Time
}

// NewSocialCollector creates a collector over the standard feed set.
func NewSocialCollector() *SocialCollector {
	return &SocialCollector{
		client:         httpx.NewClient(feedTimeout),
		ecosystemFeeds: ecosystemFeeds,
		newsFeeds:      newsFeeds,
		governanceURL:  defaultGovernanceURL,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Collect gathers all social signals. Unreachable feeds degrade to empty
// lists and never abort the record.
func (c *SocialCollector) Collect(ctx context.Context) signals.SocialRecord {
	logging.Info("collecting social signals")

	rec := signals.SocialRecord{
		EcosystemArticles: c.ecosystemArticles(ctx),
		NewsArticles:      c.newsArticles(ctx),
		Governance:        c.governanceProposals(ctx),
		CollectedAt:       c.now().Format(time.RFC3339),
	}

	logging.Info("social signals collected",
		"ecosystem_articles", len(rec.EcosystemArticles),
		"news_articles", len(rec.NewsArticles),
		"governance", len(rec.Governance))
	return rec
}

func (c *SocialCollector) ecosystemArticles(ctx context.Context) []signals.Article {
	var out []signals.Article
	for _, articles := range c.fetchFeeds(ctx, c.ecosystemFeeds) {
		out = append(out, articles...)
	}
	return out
}

func (c *SocialCollector) newsArticles(ctx context.Context) []signals.Article {
	var out []signals.Article
	perFeed := c.fetchFeeds(ctx, c.newsFeeds)
	for i, articles := range perFeed {
		if !c.newsFeeds[i].Scoped {
			articles = filterSolanaRelated(articles)
		}
		out = append(out, articles...)
	}
	return out
}

// fetchFeeds fetches every feed concurrently. Indexed slots keep the
// results in feed-list order so article ordering stays deterministic.
func (c *SocialCollector) fetchFeeds(ctx context.Context, feeds []FeedSource) [][]signals.Article {
	perFeed := make([][]signals.Article, len(feeds))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, src := range feeds {
		i, src := i, src // per-iteration copies; required while building with Go <1.22
		g.Go(func() error {
			perFeed[i] = c.parseFeed(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	return perFeed
}

// parseFeed fetches one feed and maps its entries to articles. gofeed
// detects RSS vs Atom on its own, so both feed kinds go through here.
func (c *SocialCollector) parseFeed(ctx context.Context, src FeedSource) []signals.Article {
	resp, err := c.client.Get(ctx, src.URL)
	if err != nil {
		logging.Warn("feed fetch failed", "feed", src.Name, "error", err)
		return nil
	}
	defer resp.Body.Close()

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		logging.Warn("feed parse failed", "feed", src.Name, "error", err)
		return nil
	}

	var articles []signals.Article
	for _, entry := range feed.Items {
		if entry.Title == "" {
			continue
		}
		published := entry.Published
		if published == "" {
			published = entry.Updated
		}
		articles = append(articles, signals.Article{
			Source:    src.Name,
			Title:     strings.TrimSpace(entry.Title),
			URL:       strings.TrimSpace(entry.Link),
			Published: strings.TrimSpace(published),
			Summary:   stripHTML(entry.Description),
		})
		if len(articles) == maxArticlesPerFeed {
			break
		}
	}
	return articles
}

func filterSolanaRelated(articles []signals.Article) []signals.Article {
	var out []signals.Article
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Summary)
		for _, kw := range solanaKeywords {
			if strings.Contains(text, kw) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// stripHTML removes markup and bounds the summary length.
func stripHTML(s string) string {
	return truncate(strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, "")), maxSummaryChars)
}

type githubPull struct {
	Title     string `json:"title"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

// governanceProposals lists open pull requests against the SIMD repository,
// newest first.
func (c *SocialCollector) governanceProposals(ctx context.Context) []signals.Proposal {
	params := url.Values{}
	params.Set("state", "open")
	params.Set("sort", "created")
	params.Set("direction", "desc")
	params.Set("per_page", strconv.Itoa(maxGovernancePulls))

	header := http.Header{}
	header.Set("Accept", "application/vnd.github.v3+json")

	var pulls []githubPull
	if err := c.client.GetJSON(ctx, c.governanceURL, params, header, &pulls); err != nil {
		logging.Warn("governance proposal fetch failed", "error", err)
		return nil
	}

	out := make([]signals.Proposal, 0, len(pulls))
	for _, pr := range pulls {
		labels := make([]string, 0, len(pr.Labels))
		for _, l := range pr.Labels {
			labels = append(labels, l.Name)
		}
		out = append(out, signals.Proposal{
			Title:     pr.Title,
			URL:       pr.HTMLURL,
			CreatedAt: pr.CreatedAt,
			User:      pr.User.Login,
			Labels:    labels,
		})
	}
	return out
}
