package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

func openTestDB(t *testing.T) *LeadRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLeadRepository(db)
}

func TestLeadUpsertIsIdempotent(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	first := &entity.Lead{Email: "ana@example.com", Name: "Ana", Preferences: "goal: Lose Weight"}
	require.NoError(t, repo.Upsert(ctx, first))
	assert.NotZero(t, first.ID)
	assert.Equal(t, entity.SubscriptionFree, first.SubscriptionStatus)

	second := &entity.Lead{Email: "ana@example.com", Name: "Ana Maria"}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	stored, err := repo.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", stored.Name)
	assert.Equal(t, "goal: Lose Weight", stored.Preferences, "empty fields must not clobber existing data")
}

func TestLeadGetByEmailNotFound(t *testing.T) {
	repo := openTestDB(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestUpdateSubscription(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	lead := &entity.Lead{Email: "bruno@example.com"}
	require.NoError(t, repo.Upsert(ctx, lead))

	require.NoError(t, repo.UpdateSubscription(ctx, lead.ID, entity.SubscriptionPremium))
	stored, err := repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionPremium, stored.SubscriptionStatus)
	assert.True(t, stored.IsPremium())
	require.NotNil(t, stored.SubscriptionStart)

	require.NoError(t, repo.UpdateSubscription(ctx, lead.ID, entity.SubscriptionFree))
	stored, err = repo.GetByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SubscriptionFree, stored.SubscriptionStatus)
	assert.Nil(t, stored.SubscriptionStart)
}

func TestCounts(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		require.NoError(t, repo.Upsert(ctx, &entity.Lead{Email: email}))
	}
	lead, err := repo.GetByEmail(ctx, "c@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.UpdateSubscription(ctx, lead.ID, entity.SubscriptionPremium))

	total, free, premium, recent, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, free)
	assert.Equal(t, 1, premium)
	assert.Equal(t, 3, recent)
}

func TestListPremium(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	free := &entity.Lead{Email: "free@example.com"}
	require.NoError(t, repo.Upsert(ctx, free))
	paid := &entity.Lead{Email: "paid@example.com"}
	require.NoError(t, repo.Upsert(ctx, paid))
	require.NoError(t, repo.UpdateSubscription(ctx, paid.ID, entity.SubscriptionPremium))

	leads, err := repo.ListPremium(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "paid@example.com", leads[0].Email)
}
