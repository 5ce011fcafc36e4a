package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/funnel-agent/internal/entity"
	"github.com/xavierca1/funnel-agent/internal/infra/queue"
)

var errNotFound = errors.New("not found")

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

type mockLeadRepo struct {
	mock.Mock
}

func (m *mockLeadRepo) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	if lead.ID == 0 {
		lead.ID = 1
	}
	return args.Error(0)
}

func (m *mockLeadRepo) GetByEmail(ctx context.Context, email string) (*entity.Lead, error) {
	args := m.Called(ctx, email)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if lead, ok := args.Get(0).(*entity.Lead); ok {
		return lead, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) UpdateSubscription(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockLeadRepo) ListPremium(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if leads, ok := args.Get(0).([]*entity.Lead); ok {
		return leads, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLeadRepo) Counts(ctx context.Context) (int, int, int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Int(2), args.Int(3), args.Error(4)
}

type mockPlanRepo struct {
	mock.Mock
}

func (m *mockPlanRepo) Save(ctx context.Context, p *entity.MealPlan) error {
	args := m.Called(ctx, p)
	if p.ID == 0 {
		p.ID = 1
	}
	return args.Error(0)
}

func (m *mockPlanRepo) MarkSent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockConvRepo struct {
	mock.Mock
}

func (m *mockConvRepo) Upsert(ctx context.Context, c *entity.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockConvRepo) GetBySession(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	args := m.Called(ctx, sessionID)
	if c, ok := args.Get(0).(*entity.Conversation); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockEmailSender struct {
	mock.Mock
}

func (m *mockEmailSender) SendFreePlan(to, name, goal, plan string, planDays, premiumPrice int) error {
	return m.Called(to, name, goal, plan, planDays, premiumPrice).Error(0)
}

func (m *mockEmailSender) SendPremiumPlan(to, name, plan, shoppingList string, memberSince *time.Time) error {
	return m.Called(to, name, plan, shoppingList, memberSince).Error(0)
}

type mockPaymentGateway struct {
	mock.Mock
}

func (m *mockPaymentGateway) Configured() bool {
	return m.Called().Bool(0)
}

func (m *mockPaymentGateway) CreateCheckoutSession(ctx context.Context, priceID, customerEmail, successURL, cancelURL string) (string, error) {
	args := m.Called(ctx, priceID, customerEmail, successURL, cancelURL)
	return args.String(0), args.Error(1)
}

func (m *mockPaymentGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return m.Called(ctx, subscriptionID).Error(0)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) PublishActivation(ctx context.Context, payload queue.ActivationPayload) error {
	return m.Called(ctx, payload).Error(0)
}

type mockDeliverer struct {
	mock.Mock
}

func (m *mockDeliverer) DeliverPremium(ctx context.Context, leadID int64) error {
	return m.Called(ctx, leadID).Error(0)
}
