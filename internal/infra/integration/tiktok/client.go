// Package tiktok is a placeholder publisher. The TikTok Content Posting API
// requires an approved developer app; until credentials exist this client
// reports the upload as skipped.
package tiktok

import (
	"context"
	"errors"
)

var ErrNotImplemented = errors.New("tiktok publishing not implemented: requires approved content posting app")

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
