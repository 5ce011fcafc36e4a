package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) VerifySignature(payload []byte, sigHeader string) bool {
	return m.Called(payload, sigHeader).Bool(0)
}

func (m *mockVerifier) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) Activate(ctx context.Context, email, name string) error {
	return m.Called(ctx, email, name).Error(0)
}

func (m *mockSubscriptionService) Deactivate(ctx context.Context, email, subscriptionID string) error {
	return m.Called(ctx, email, subscriptionID).Error(0)
}

func newWebhookHandler(verifier *mockVerifier, svc *mockSubscriptionService) *WebhookHandler {
	return NewWebhookHandler(verifier, svc, log.New(io.Discard))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	verifier := new(mockVerifier)
	verifier.On("VerifySignature", mock.Anything, mock.Anything).Return(false)

	h := newWebhookHandler(verifier, new(mockSubscriptionService))

	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, 400, rec.Code)
}

func TestWebhookCheckoutCompletedActivates(t *testing.T) {
	verifier := new(mockVerifier)
	svc := new(mockSubscriptionService)
	verifier.On("VerifySignature", mock.Anything, mock.Anything).Return(true)
	svc.On("Activate", mock.Anything, "ana@example.com", "Ana").Return(nil)

	h := newWebhookHandler(verifier, svc)

	payload := `{
		"id": "evt_1",
		"type": "checkout.session.completed",
		"data": {"object": {"customer_details": {"email": "ana@example.com", "name": "Ana"}}}
	}`
	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, 200, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhookSubscriptionDeletedDowngrades(t *testing.T) {
	verifier := new(mockVerifier)
	svc := new(mockSubscriptionService)
	verifier.On("VerifySignature", mock.Anything, mock.Anything).Return(true)
	verifier.On("GetCustomerEmail", mock.Anything, "cus_9").Return("ana@example.com", nil)
	svc.On("Deactivate", mock.Anything, "ana@example.com", "").Return(nil)

	h := newWebhookHandler(verifier, svc)

	payload := `{
		"id": "evt_2",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_1", "customer": "cus_9"}}
	}`
	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, 200, rec.Code)
	svc.AssertExpectations(t)
}

func TestWebhookUnknownEventIsAcked(t *testing.T) {
	verifier := new(mockVerifier)
	svc := new(mockSubscriptionService)
	verifier.On("VerifySignature", mock.Anything, mock.Anything).Return(true)

	h := newWebhookHandler(verifier, svc)

	payload := `{"id": "evt_3", "type": "customer.updated", "data": {"object": {}}}`
	req := httptest.NewRequest("POST", "/webhook/stripe", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, 200, rec.Code)
	svc.AssertNotCalled(t, "Activate", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
}
