package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivationPayload identifies the lead whose first premium plan is due.
// The worker reloads the lead by id; the email is there so dead-lettered
// messages can be traced to a subscriber.
type ActivationPayload struct {
	LeadID int64  `json:"lead_id"`
	Email  string `json:"email"`
}

type Producer struct {
	Ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch}
}

func (p *Producer) PublishActivation(ctx context.Context, payload ActivationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal activation payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish activation: %w", err)
	}
	return nil
}
