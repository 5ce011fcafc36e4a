// Package gtrends reads the Google Trends daily trending searches RSS feed.
// There is no official API for this data; the RSS feed is the stable surface.
package gtrends

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	geo     string
	http    *http.Client
}

func NewClient(geo string) *Client {
	if geo == "" {
		geo = "US"
	}
	return &Client{
		baseURL: "https://trends.google.com",
		geo:     geo,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// DailySearches fetches today's trending searches. When keywords is
// non-empty, only entries mentioning one of them are returned.
func (c *Client) DailySearches(ctx context.Context, keywords []string) ([]TrendingSearch, error) {
	url := fmt.Sprintf("%s/trends/trendingsearches/daily/rss?geo=%s", c.baseURL, c.geo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google trends request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("google trends rss (status %d): %s", resp.StatusCode, string(body))
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode trends rss: %w", err)
	}

	var searches []TrendingSearch
	for _, item := range feed.Items {
		if len(keywords) > 0 && !matchesAny(item, keywords) {
			continue
		}
		searches = append(searches, TrendingSearch{
			Title:       item.Title,
			Traffic:     item.Traffic,
			Description: item.Description,
		})
	}
	return searches, nil
}

func matchesAny(item rssItem, keywords []string) bool {
	haystack := strings.ToLower(item.Title + " " + item.Description)
	for _, kw := range keywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
