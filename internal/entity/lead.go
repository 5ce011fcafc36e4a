package entity

import (
	"context"
	"time"
)

const (
	SubscriptionFree    = "free"
	SubscriptionPremium = "premium"
)

// Lead is a person who entered the funnel. Email is the business key.
type Lead struct {
	ID                 int64      `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name,omitempty"`
	Preferences        string     `json:"preferences,omitempty"` // goal/allergies/meal count, JSON blob
	SubscriptionStatus string     `json:"subscription_status"`   // free, premium
	CreatedAt          time.Time  `json:"created_at"`
	SubscriptionStart  *time.Time `json:"subscription_start,omitempty"`
}

func (l *Lead) IsPremium() bool {
	return l.SubscriptionStatus == SubscriptionPremium
}

// SubscriptionStats is the aggregate shape behind the stats command.
// ConversionRate is premium/total in percent, rounded to 2 decimals.
type SubscriptionStats struct {
	TotalLeads     int     `json:"total_leads"`
	FreeUsers      int     `json:"free_users"`
	PremiumUsers   int     `json:"premium_users"`
	ConversionRate float64 `json:"conversion_rate"`
	RecentSignups  int     `json:"recent_signups"`
}

type LeadRepositoryInterface interface {
	Upsert(ctx context.Context, lead *Lead) error
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	GetByID(ctx context.Context, id int64) (*Lead, error)
	UpdateSubscription(ctx context.Context, id int64, status string) error
	ListPremium(ctx context.Context) ([]*Lead, error)
	Counts(ctx context.Context) (total, free, premium, recent int, err error)
}
