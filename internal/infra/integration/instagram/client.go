// Package instagram publishes Reels through the Instagram Graph API.
// Publishing is a two-step flow: create a media container pointing at a
// publicly reachable video URL, wait for processing, then publish it.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const graphBaseURL = "https://graph.facebook.com/v19.0"

type Client struct {
	baseURL     string
	accessToken string
	accountID   string
	http        *http.Client
}

func NewClient(accessToken, accountID string) *Client {
	return &Client{
		baseURL:     graphBaseURL,
		accessToken: accessToken,
		accountID:   accountID,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.accessToken != "" && c.accountID != ""
}

// PublishVideo uploads and publishes a Reel. videoURL must be publicly
// reachable; the Graph API pulls it server-side. Returns the media id.
func (c *Client) PublishVideo(ctx context.Context, videoURL, caption string) (string, error) {
	containerID, err := c.createContainer(ctx, videoURL, caption)
	if err != nil {
		return "", err
	}

	if err := c.waitForContainer(ctx, containerID); err != nil {
		return "", err
	}

	return c.publish(ctx, containerID)
}

func (c *Client) createContainer(ctx context.Context, videoURL, caption string) (string, error) {
	form := url.Values{}
	form.Set("media_type", "REELS")
	form.Set("video_url", videoURL)
	form.Set("caption", caption)
	form.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/%s/media", c.baseURL, c.accountID)
	var response containerResponse
	if err := c.postForm(ctx, endpoint, form, &response); err != nil {
		return "", fmt.Errorf("create media container: %w", err)
	}
	return response.ID, nil
}

// waitForContainer polls until the Graph API finishes ingesting the video.
func (c *Client) waitForContainer(ctx context.Context, containerID string) error {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s",
		c.baseURL, containerID, url.QueryEscape(c.accessToken))

	for attempt := 0; attempt < 20; attempt++ {
		var status statusResponse
		if err := c.get(ctx, endpoint, &status); err != nil {
			return err
		}
		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return fmt.Errorf("media container %s failed processing", containerID)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(3 * time.Second):
		}
	}
	return fmt.Errorf("media container %s not ready after polling", containerID)
}

func (c *Client) publish(ctx context.Context, containerID string) (string, error) {
	form := url.Values{}
	form.Set("creation_id", containerID)
	form.Set("access_token", c.accessToken)

	endpoint := fmt.Sprintf("%s/%s/media_publish", c.baseURL, c.accountID)
	var response publishResponse
	if err := c.postForm(ctx, endpoint, form, &response); err != nil {
		return "", fmt.Errorf("publish media: %w", err)
	}
	return response.ID, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = form.Encode()

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed graphError
		if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
			return fmt.Errorf("graph api (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return fmt.Errorf("graph api (status %d): %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}
