package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/infra/http/middleware"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/stripe"
)

// SignatureVerifier checks the Stripe-Signature header against the payload
// and resolves customer ids for events that omit the email.
type SignatureVerifier interface {
	VerifySignature(payload []byte, sigHeader string) bool
	GetCustomerEmail(ctx context.Context, customerID string) (string, error)
}

// SubscriptionService is the activation surface the webhook needs.
type SubscriptionService interface {
	Activate(ctx context.Context, email, name string) error
	Deactivate(ctx context.Context, email, subscriptionID string) error
}

type WebhookHandler struct {
	Verifier     SignatureVerifier
	Subscription SubscriptionService
	Logger       *log.Logger
}

func NewWebhookHandler(verifier SignatureVerifier, subscription SubscriptionService, logger *log.Logger) *WebhookHandler {
	return &WebhookHandler{
		Verifier:     verifier,
		Subscription: subscription,
		Logger:       logger,
	}
}

// Handle processes Stripe webhook events. Unknown event types are
// acknowledged with 200 so Stripe stops retrying them.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	if !h.Verifier.VerifySignature(payload, r.Header.Get("Stripe-Signature")) {
		h.Logger.Warn("webhook signature verification failed")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	event, err := stripe.ParseEvent(payload)
	if err != nil {
		http.Error(w, "invalid event payload", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(r.Context(), event)

	case "customer.subscription.deleted":
		h.handleSubscriptionDeleted(r.Context(), event)

	case "invoice.payment_failed":
		h.Logger.Warn("payment failed for subscriber", "event_id", event.ID)

	default:
		h.Logger.Debug("ignoring webhook event", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) {
	var session stripe.CheckoutObject
	if err := json.Unmarshal(event.Object, &session); err != nil {
		h.Logger.Error("malformed checkout session object", "event_id", event.ID, "error", err)
		return
	}

	email := session.CustomerDetails.Email
	if email == "" {
		email = session.CustomerEmail
	}
	if email == "" {
		h.Logger.Error("checkout completed without a customer email", "event_id", event.ID)
		return
	}

	if err := h.Subscription.Activate(ctx, email, session.CustomerDetails.Name); err != nil {
		// Logged and acked: Stripe retrying won't fix a broken dependency,
		// and the lead can be activated manually from the stats report.
		h.Logger.Error("webhook activation failed", "email", email, "error", err)
		return
	}
	middleware.RecordSubscriptionActivation()
}

func (h *WebhookHandler) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) {
	var sub stripe.SubscriptionObject
	if err := json.Unmarshal(event.Object, &sub); err != nil {
		h.Logger.Error("malformed subscription object", "event_id", event.ID, "error", err)
		return
	}

	email, err := h.Verifier.GetCustomerEmail(ctx, sub.Customer)
	if err != nil {
		middleware.RecordIntegrationError("stripe")
		h.Logger.Error("cannot resolve cancelled customer", "customer", sub.Customer, "error", err)
		return
	}

	if err := h.Subscription.Deactivate(ctx, email, ""); err != nil {
		h.Logger.Error("webhook deactivation failed", "email", email, "error", err)
		return
	}
	h.Logger.Info("subscription downgraded", "email", email, "subscription_id", sub.ID)
}
