package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signPayload(secret string, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := NewClient("sk_test_x", "whsec_test")
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	sig := signPayload("whsec_test", "1700000000", payload)
	header := fmt.Sprintf("t=1700000000,v1=%s", sig)

	assert.True(t, client.VerifySignature(payload, header))
	assert.False(t, client.VerifySignature([]byte(`{"tampered":true}`), header))
	assert.False(t, client.VerifySignature(payload, "t=1700000000,v1=deadbeef"))
	assert.False(t, client.VerifySignature(payload, "garbage"))
}

func TestVerifySignatureSkippedWithoutSecret(t *testing.T) {
	client := NewClient("sk_test_x", "")
	assert.True(t, client.VerifySignature([]byte("anything"), "t=1,v1=bogus"))
}

func TestParseEvent(t *testing.T) {
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_1", "customer_details": {"email": "ana@example.com", "name": "Ana"}}}
	}`)

	event, err := ParseEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Contains(t, string(event.Object), "ana@example.com")
}
