// Package stripe talks to the Stripe REST API (form-encoded, basic auth via
// bearer key) and verifies webhook signatures without the full SDK.
package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	http          *http.Client
}

func NewClient(secretKey, webhookSecret string) *Client {
	return &Client{
		baseURL:       defaultBaseURL,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a secret key is present. Without one the agent
// falls back to activating subscriptions directly.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// CreateCheckoutSession opens a subscription checkout for the given price
// and returns the hosted payment page URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID, customerEmail, successURL, cancelURL string) (string, error) {
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("customer_email", customerEmail)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/checkout/sessions", c.baseURL), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiErr("create checkout session", resp)
	}

	var session checkoutSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("decode checkout session: %w", err)
	}
	return session.URL, nil
}

// CancelSubscription cancels the Stripe subscription immediately.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/subscriptions/%s", c.baseURL, subscriptionID), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErr("cancel subscription", resp)
	}
	return nil
}

// GetCustomerEmail resolves a Stripe customer id to its email. Subscription
// events carry only the customer id, not the address.
func (c *Client) GetCustomerEmail(ctx context.Context, customerID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/customers/%s", c.baseURL, customerID), nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("stripe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apiErr("get customer", resp)
	}

	var customer customerResponse
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return "", fmt.Errorf("decode customer: %w", err)
	}
	return customer.Email, nil
}

// VerifySignature checks the Stripe-Signature header (v1 scheme: HMAC-SHA256
// over "{t}.{payload}"). When no webhook secret is configured, verification
// is skipped and the payload is accepted.
func (c *Client) VerifySignature(payload []byte, sigHeader string) bool {
	if c.webhookSecret == "" {
		return true
	}

	var timestamp, signature string
	for _, part := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent decodes the webhook envelope.
func ParseEvent(payload []byte) (*Event, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &Event{
		ID:     envelope.ID,
		Type:   envelope.Type,
		Object: envelope.Data.Object,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
}

func apiErr(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return fmt.Errorf("stripe %s (status %d): %s", op, resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("stripe %s (status %d)", op, resp.StatusCode)
}
