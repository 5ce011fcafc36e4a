// Package reddit scrapes hot posts from the public JSON listing endpoints.
// No OAuth: the listings are public, they just require a real User-Agent.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://www.reddit.com",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// HotPosts fetches the current hot listing for a subreddit.
func (c *Client) HotPosts(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, subreddit, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("reddit r/%s (status %d): %s", subreddit, resp.StatusCode, string(body))
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
