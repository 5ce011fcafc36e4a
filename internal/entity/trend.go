package entity

import "time"

// Trend is a candidate topic surfaced by the scrapers and scored by the LLM.
// Rows are never deleted; UsedForContent flips once content is published from it.
type Trend struct {
	ID             int64     `json:"id"`
	Source         string    `json:"source"`
	Topic          string    `json:"topic"`
	Summary        string    `json:"summary"`
	RawData        string    `json:"raw_data"` // opaque scrape payload, JSON blob
	CreatedAt      time.Time `json:"created_at"`
	UsedForContent bool      `json:"used_for_content"`
}
