package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/gtrends"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/reddit"
)

const postsPerSubreddit = 10

type redditLister interface {
	HotPosts(ctx context.Context, subreddit string, limit int) ([]reddit.Post, error)
}

// RedditSource turns hot posts from the configured subreddits into trends.
type RedditSource struct {
	Client     redditLister
	Subreddits []string
}

func (s *RedditSource) Name() string { return "reddit" }

func (s *RedditSource) Scrape(ctx context.Context) ([]entity.Trend, error) {
	var trends []entity.Trend
	var lastErr error

	for _, sub := range s.Subreddits {
		posts, err := s.Client.HotPosts(ctx, sub, postsPerSubreddit)
		if err != nil {
			lastErr = err
			continue
		}
		for _, post := range posts {
			raw, _ := json.Marshal(post)
			trends = append(trends, entity.Trend{
				Source:  "reddit",
				Topic:   post.Title,
				Summary: fmt.Sprintf("r/%s, score %d, %d comments", sub, post.Score, post.NumComments),
				RawData: string(raw),
			})
		}
	}

	if len(trends) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return trends, nil
}

type trendsLister interface {
	DailySearches(ctx context.Context, keywords []string) ([]gtrends.TrendingSearch, error)
}

// GoogleTrendsSource reads the daily trending searches feed, filtered to the
// niche keywords.
type GoogleTrendsSource struct {
	Client   trendsLister
	Keywords []string
}

func (s *GoogleTrendsSource) Name() string { return "google_trends" }

func (s *GoogleTrendsSource) Scrape(ctx context.Context) ([]entity.Trend, error) {
	searches, err := s.Client.DailySearches(ctx, s.Keywords)
	if err != nil {
		return nil, err
	}

	trends := make([]entity.Trend, 0, len(searches))
	for _, search := range searches {
		raw, _ := json.Marshal(search)
		trends = append(trends, entity.Trend{
			Source:  "google_trends",
			Topic:   search.Title,
			Summary: search.Description,
			RawData: string(raw),
		})
	}
	return trends, nil
}

// StaticHashtagSource is the always-available fallback: a curated hashtag
// list for the niche, so the pipeline never runs dry when scraping fails.
type StaticHashtagSource struct {
	Hashtags []string
}

var defaultNicheHashtags = []string{
	"#mealprepsunday", "#mealprepping", "#healthymealprep",
	"#mealprepideas", "#weeklymealprep", "#mealpreplife",
}

func (s *StaticHashtagSource) Name() string { return "hashtags" }

func (s *StaticHashtagSource) Scrape(ctx context.Context) ([]entity.Trend, error) {
	hashtags := s.Hashtags
	if len(hashtags) == 0 {
		hashtags = defaultNicheHashtags
	}

	trends := make([]entity.Trend, 0, len(hashtags))
	for _, tag := range hashtags {
		trends = append(trends, entity.Trend{
			Source: "hashtags",
			Topic:  tag,
		})
	}
	return trends, nil
}
