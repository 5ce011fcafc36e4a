package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/funnel-agent/internal/funnel"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.Get("missing")
	assert.False(t, ok)

	c := funnel.NewConversation("abc")
	store.Put(c)

	got, ok := store.Get("abc")
	require.True(t, ok)
	assert.Same(t, c, got)

	store.Evict("abc")
	_, ok = store.Get("abc")
	assert.False(t, ok)
}
