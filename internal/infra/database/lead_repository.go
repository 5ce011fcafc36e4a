package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert inserts the lead or, when the email already exists, refreshes name
// and preferences without losing what is already there. Saving the same
// email twice yields the same id.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO leads (email, name, preferences, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (email)
		 DO UPDATE SET
			name = COALESCE(excluded.name, leads.name),
			preferences = COALESCE(excluded.preferences, leads.preferences)
		 RETURNING id, created_at, subscription_status`,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Preferences),
		time.Now(),
	).Scan(&lead.ID, &lead.CreatedAt, &lead.SubscriptionStatus)

	return err
}

func (r *LeadRepository) GetByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	return r.getOne(ctx, `WHERE email = ?`, email)
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *LeadRepository) getOne(ctx context.Context, where string, arg any) (*entity.Lead, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, email, COALESCE(name, ''), COALESCE(preferences, ''),
			subscription_status, created_at, subscription_start
		 FROM leads `+where, arg)

	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeadNotFound
	}
	return lead, err
}

// UpdateSubscription flips the status flag. Going premium stamps the start
// time; going back to free clears it.
func (r *LeadRepository) UpdateSubscription(ctx context.Context, id int64, status string) error {
	var start *time.Time
	if status == entity.SubscriptionPremium {
		now := time.Now()
		start = &now
	}
	_, err := r.DB.ExecContext(ctx,
		`UPDATE leads SET subscription_status = ?, subscription_start = ? WHERE id = ?`,
		status, start, id)
	return err
}

func (r *LeadRepository) ListPremium(ctx context.Context) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, email, COALESCE(name, ''), COALESCE(preferences, ''),
			subscription_status, created_at, subscription_start
		 FROM leads WHERE subscription_status = ?`, entity.SubscriptionPremium)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Counts returns the raw numbers behind the stats report; the conversion
// rate is computed by the caller.
func (r *LeadRepository) Counts(ctx context.Context) (total, free, premium, recent int, err error) {
	weekAgo := time.Now().AddDate(0, 0, -7)

	err = r.DB.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COUNT(CASE WHEN subscription_status = 'free' THEN 1 END),
			COUNT(CASE WHEN subscription_status = 'premium' THEN 1 END),
			COUNT(CASE WHEN created_at >= ? THEN 1 END)
		 FROM leads`, weekAgo,
	).Scan(&total, &free, &premium, &recent)

	return total, free, premium, recent, err
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var start sql.NullTime
	err := row.Scan(&lead.ID, &lead.Email, &lead.Name, &lead.Preferences,
		&lead.SubscriptionStatus, &lead.CreatedAt, &start)
	if err != nil {
		return nil, err
	}
	if start.Valid {
		lead.SubscriptionStart = &start.Time
	}
	return &lead, nil
}
