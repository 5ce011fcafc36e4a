package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/infra/queue"
)

// PremiumDeliverer generates and emails the first premium plan. Used for the
// synchronous fallback when no message queue is configured.
type PremiumDeliverer interface {
	DeliverPremium(ctx context.Context, leadID int64) error
}

// Subscription manages the paid tier: checkout, activation, cancellation,
// and the funnel stats report.
type Subscription struct {
	LeadRepo  entity.LeadRepositoryInterface
	Payments  PaymentGateway
	Producer  QueueProducerInterface // nil when running without a broker
	Deliverer PremiumDeliverer

	PriceID    string
	SuccessURL string
	CancelURL  string
	Logger     *log.Logger
}

// StartCheckout begins an upgrade. preferences is the funnel data captured
// during the chat, attached to the lead so premium plans stay personalized.
// With Stripe configured it returns the hosted checkout URL and activation
// waits for the webhook; without it the subscription activates immediately.
func (uc *Subscription) StartCheckout(ctx context.Context, email, preferences string) (checkoutURL string, err error) {
	lead := &entity.Lead{Email: email, Preferences: preferences}
	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		return "", &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("upsert lead: %v", err)}
	}

	if !uc.Payments.Configured() {
		uc.Logger.Warn("payment gateway not configured, activating directly", "email", email)
		return "", uc.Activate(ctx, email, "")
	}

	url, err := uc.Payments.CreateCheckoutSession(ctx, uc.PriceID, email, uc.SuccessURL, uc.CancelURL)
	if err != nil {
		return "", &TechnicalError{Code: "PAYMENT_ERROR", Message: fmt.Sprintf("create checkout: %v", err)}
	}
	return url, nil
}

// Activate flips the lead to premium and hands first-plan delivery to the
// queue, or delivers inline when no broker is connected.
func (uc *Subscription) Activate(ctx context.Context, email, name string) error {
	lead := &entity.Lead{Email: email, Name: name}
	if err := uc.LeadRepo.Upsert(ctx, lead); err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("upsert lead: %v", err)}
	}

	if err := uc.LeadRepo.UpdateSubscription(ctx, lead.ID, entity.SubscriptionPremium); err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("activate subscription: %v", err)}
	}
	uc.Logger.Info("subscription activated", "lead_id", lead.ID, "email", email)

	if uc.Producer != nil {
		payload := queue.ActivationPayload{LeadID: lead.ID, Email: lead.Email}
		if err := uc.Producer.PublishActivation(ctx, payload); err != nil {
			// Queue down: fall through to inline delivery rather than
			// leaving a paying subscriber without their first plan.
			uc.Logger.Error("publish activation failed, delivering inline", "lead_id", lead.ID, "error", err)
		} else {
			return nil
		}
	}

	if err := uc.Deliverer.DeliverPremium(ctx, lead.ID); err != nil {
		uc.Logger.Error("first premium delivery failed", "lead_id", lead.ID, "error", err)
	}
	return nil
}

// Deactivate downgrades the lead to free. subscriptionID, when present, is
// also cancelled at the gateway.
func (uc *Subscription) Deactivate(ctx context.Context, email, subscriptionID string) error {
	lead, err := uc.LeadRepo.GetByEmail(ctx, email)
	if err != nil {
		return &DomainError{Code: "LEAD_NOT_FOUND", Message: fmt.Sprintf("no lead for %s", email)}
	}

	if err := uc.LeadRepo.UpdateSubscription(ctx, lead.ID, entity.SubscriptionFree); err != nil {
		return &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("deactivate subscription: %v", err)}
	}

	if subscriptionID != "" && uc.Payments.Configured() {
		if err := uc.Payments.CancelSubscription(ctx, subscriptionID); err != nil {
			uc.Logger.Error("gateway cancel failed", "subscription_id", subscriptionID, "error", err)
		}
	}

	uc.Logger.Info("subscription cancelled", "lead_id", lead.ID, "email", email)
	return nil
}

// Stats reports the funnel numbers. Conversion rate is premium over total,
// as a percentage rounded to two decimals; an empty funnel reports zero.
func (uc *Subscription) Stats(ctx context.Context) (*entity.SubscriptionStats, error) {
	total, free, premium, recent, err := uc.LeadRepo.Counts(ctx)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("load lead counts: %v", err)}
	}

	stats := &entity.SubscriptionStats{
		TotalLeads:    total,
		FreeUsers:     free,
		PremiumUsers:  premium,
		RecentSignups: recent,
	}
	if total > 0 {
		stats.ConversionRate = math.Round(float64(premium)/float64(total)*100*100) / 100
	}
	return stats, nil
}
