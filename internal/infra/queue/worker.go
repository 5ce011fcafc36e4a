package queue

import (
	"context"
	"encoding/json"

	"github.com/charmbracelet/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PlanDeliverer generates and emails the first premium plan for a newly
// activated subscriber.
type PlanDeliverer interface {
	DeliverPremium(ctx context.Context, leadID int64) error
}

type Worker struct {
	channel   *amqp.Channel
	deliverer PlanDeliverer
	logger    *log.Logger
}

func NewWorker(ch *amqp.Channel, deliverer PlanDeliverer, logger *log.Logger) *Worker {
	return &Worker{
		channel:   ch,
		deliverer: deliverer,
		logger:    logger,
	}
}

// Start consumes activation messages until the context is cancelled.
// Acknowledgement is manual: malformed messages and delivery failures are
// nacked without requeue, which routes them to the dead-letter queue.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(
		QueueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	w.logger.Info("activation worker started", "queue", QueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload ActivationPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.logger.Error("malformed activation message", "error", err)
		d.Nack(false, false)
		return
	}

	w.logger.Info("processing premium activation", "lead_id", payload.LeadID, "email", payload.Email)

	if err := w.deliverer.DeliverPremium(ctx, payload.LeadID); err != nil {
		w.logger.Error("premium delivery failed", "lead_id", payload.LeadID, "error", err)
		d.Nack(false, false)
		return
	}

	w.logger.Info("premium plan delivered", "lead_id", payload.LeadID)
	d.Ack(false)
}
