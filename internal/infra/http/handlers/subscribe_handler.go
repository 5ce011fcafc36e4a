package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/funnel-agent/internal/funnel"
	"github.com/xavierca1/funnel-agent/internal/infra/http/middleware"
	"github.com/xavierca1/funnel-agent/internal/session"
	"github.com/xavierca1/funnel-agent/internal/usecase"
)

// CheckoutStarter begins a premium upgrade for a qualified lead.
type CheckoutStarter interface {
	StartCheckout(ctx context.Context, email, preferences string) (string, error)
}

type SubscribeHandler struct {
	Subscription CheckoutStarter
	Sessions     session.Store
}

func NewSubscribeHandler(subscription CheckoutStarter, sessions session.Store) *SubscribeHandler {
	return &SubscribeHandler{Subscription: subscription, Sessions: sessions}
}

type subscribeRequest struct {
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

type subscribeResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// Handle upgrades the lead behind a chat session. The session must exist:
// its funnel answers become the lead's preferences, so the premium plans
// stay personalized. With Stripe configured the client is sent to the
// hosted checkout page; otherwise the subscription is active on return.
func (h *SubscribeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSubscribe(w, http.StatusBadRequest, subscribeResponse{Message: "invalid json body"})
		return
	}

	email, ok := funnel.ExtractEmail(req.Email)
	if !ok {
		writeSubscribe(w, http.StatusBadRequest, subscribeResponse{Message: "a valid email is required"})
		return
	}

	conv, ok := h.Sessions.Get(req.SessionID)
	if !ok {
		writeSubscribe(w, http.StatusNotFound, subscribeResponse{Message: "session not found"})
		return
	}

	checkoutURL, err := h.Subscription.StartCheckout(r.Context(), email, encodeUserData(conv.Data))
	if err != nil {
		if usecase.IsDomainError(err) {
			writeSubscribe(w, http.StatusBadRequest, subscribeResponse{Message: err.Error()})
			return
		}
		middleware.RecordIntegrationError("stripe")
		writeSubscribe(w, http.StatusInternalServerError, subscribeResponse{Message: "subscription unavailable, please try again"})
		return
	}

	if checkoutURL != "" {
		writeSubscribe(w, http.StatusOK, subscribeResponse{
			Success:     true,
			Message:     "Complete your payment to activate premium.",
			CheckoutURL: checkoutURL,
		})
		return
	}

	middleware.RecordSubscriptionActivation()
	writeSubscribe(w, http.StatusOK, subscribeResponse{
		Success: true,
		Message: "You're upgraded! Your first premium plan is on its way.",
	})
}

func writeSubscribe(w http.ResponseWriter, status int, resp subscribeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func encodeUserData(data funnel.UserData) string {
	prefs, _ := json.Marshal(data)
	return string(prefs)
}
