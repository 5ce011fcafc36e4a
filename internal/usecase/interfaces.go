package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/infra/queue"
)

// LLMClient generates text from a system + user prompt pair.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type TrendRepositoryInterface interface {
	Save(ctx context.Context, t *entity.Trend) error
	GetByID(ctx context.Context, id int64) (*entity.Trend, error)
	GetUnused(ctx context.Context, limit int) ([]*entity.Trend, error)
	MarkUsed(ctx context.Context, id int64) error
}

type ContentRepositoryInterface interface {
	Save(ctx context.Context, c *entity.Content) error
	SetVideoPath(ctx context.Context, id int64, path string) error
	UpdateStatus(ctx context.Context, id int64, status string, publishedAt *time.Time) error
}

type ConversationRepositoryInterface interface {
	Upsert(ctx context.Context, c *entity.Conversation) error
	GetBySession(ctx context.Context, sessionID string) (*entity.Conversation, error)
}

type MealPlanRepositoryInterface interface {
	Save(ctx context.Context, p *entity.MealPlan) error
	MarkSent(ctx context.Context, id int64) error
}

// EmailSender delivers meal plans over SMTP.
type EmailSender interface {
	SendFreePlan(to, name, goal, plan string, planDays, premiumPrice int) error
	SendPremiumPlan(to, name, plan, shoppingList string, memberSince *time.Time) error
}

// PaymentGateway is the Stripe surface the funnel needs.
type PaymentGateway interface {
	Configured() bool
	CreateCheckoutSession(ctx context.Context, priceID, customerEmail, successURL, cancelURL string) (string, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

type QueueProducerInterface interface {
	PublishActivation(ctx context.Context, payload queue.ActivationPayload) error
}

// VideoComposer renders a narrated vertical clip and returns its path.
type VideoComposer interface {
	Compose(ctx context.Context, name, hook, body, narration string) (string, error)
}

// PlatformPublisher posts a finished clip to one social platform.
type PlatformPublisher interface {
	Configured() bool
	PublishVideo(ctx context.Context, videoURL, caption string) (string, error)
}

// TrendScraper produces candidate trends from one source.
type TrendScraper interface {
	Name() string
	Scrape(ctx context.Context) ([]entity.Trend, error)
}
