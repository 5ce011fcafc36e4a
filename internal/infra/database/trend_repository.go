package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

type TrendRepository struct {
	DB *sql.DB
}

func NewTrendRepository(db *sql.DB) *TrendRepository {
	return &TrendRepository{DB: db}
}

func (r *TrendRepository) Save(ctx context.Context, t *entity.Trend) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO trends (source, topic, summary, raw_data, created_at, used_for_content)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		t.Source, t.Topic, nullString(t.Summary), nullString(t.RawData), t.CreatedAt,
	)
	if err != nil {
		return err
	}

	t.ID, err = res.LastInsertId()
	return err
}

func (r *TrendRepository) GetByID(ctx context.Context, id int64) (*entity.Trend, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, source, topic, COALESCE(summary, ''), COALESCE(raw_data, ''), created_at, used_for_content
		 FROM trends WHERE id = ?`, id)
	return scanTrend(row)
}

// GetUnused returns trends not yet consumed by content, newest first.
func (r *TrendRepository) GetUnused(ctx context.Context, limit int) ([]*entity.Trend, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, source, topic, COALESCE(summary, ''), COALESCE(raw_data, ''), created_at, used_for_content
		 FROM trends WHERE used_for_content = 0 ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*entity.Trend
	for rows.Next() {
		t, err := scanTrend(rows)
		if err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// MarkUsed is a blind update; re-use races between near-simultaneous content
// runs are tolerated (no locking, same as the rest of the store).
func (r *TrendRepository) MarkUsed(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE trends SET used_for_content = 1 WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrend(row rowScanner) (*entity.Trend, error) {
	var t entity.Trend
	err := row.Scan(&t.ID, &t.Source, &t.Topic, &t.Summary, &t.RawData, &t.CreatedAt, &t.UsedForContent)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
