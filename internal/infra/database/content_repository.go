package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

type ContentRepository struct {
	DB *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Save(ctx context.Context, c *entity.Content) error {
	if c.Status == "" {
		c.Status = entity.ContentStatusDraft
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO content (trend_id, script, video_path, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.TrendID, c.Script, nullString(c.VideoPath), c.Status, c.CreatedAt,
	)
	if err != nil {
		return err
	}

	c.ID, err = res.LastInsertId()
	return err
}

func (r *ContentRepository) SetVideoPath(ctx context.Context, id int64, path string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE content SET video_path = ? WHERE id = ?`, path, id)
	return err
}

func (r *ContentRepository) UpdateStatus(ctx context.Context, id int64, status string, publishedAt *time.Time) error {
	if publishedAt != nil {
		_, err := r.DB.ExecContext(ctx,
			`UPDATE content SET status = ?, published_at = ? WHERE id = ?`, status, *publishedAt, id)
		return err
	}
	_, err := r.DB.ExecContext(ctx, `UPDATE content SET status = ? WHERE id = ?`, status, id)
	return err
}
