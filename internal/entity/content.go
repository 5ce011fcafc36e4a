package entity

import "time"

const (
	ContentStatusDraft     = "draft"
	ContentStatusCreated   = "created"
	ContentStatusPublished = "published"
)

type Content struct {
	ID          int64      `json:"id"`
	TrendID     *int64     `json:"trend_id,omitempty"`
	Script      string     `json:"script"`
	VideoPath   string     `json:"video_path,omitempty"`
	Status      string     `json:"status"` // draft, created, published
	CreatedAt   time.Time  `json:"created_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
