package stripe

import "encoding/json"

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Event is a parsed webhook event. Object holds the raw data.object payload
// so each handler can pull out only the fields it needs.
type Event struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Object json.RawMessage
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutObject is the data.object of checkout.session.completed.
type CheckoutObject struct {
	ID              string `json:"id"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
	Subscription string `json:"subscription"`
}

// SubscriptionObject is the data.object of customer.subscription.* events.
type SubscriptionObject struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
}

type customerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
