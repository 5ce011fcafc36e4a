// Package youtube is a placeholder publisher. Shorts upload needs an OAuth2
// flow against the YouTube Data API; until that is wired this client reports
// the upload as skipped.
package youtube

import (
	"context"
	"errors"
)

var ErrNotImplemented = errors.New("youtube publishing not implemented: requires oauth2 setup for the data api")

type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) Configured() bool {
	return false
}

func (c *Client) PublishVideo(ctx context.Context, videoURL, caption string) (string, error) {
	return "", ErrNotImplemented
}
