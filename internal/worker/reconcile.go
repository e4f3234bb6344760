// Package worker consumes counter-sync messages and converges denormalized
// category counters against the data store. Inline reconciles can race other
// writers; the worker re-derives counters from current records, so repeated
// deliveries are harmless.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finbook/internal/amqp"
	"finbook/internal/services"
)

// ReconcileWorker processes counter-sync messages.
type ReconcileWorker struct {
	categories *services.CategoryService
	client     *amqp.Client
}

func NewReconcileWorker(categories *services.CategoryService, client *amqp.Client) *ReconcileWorker {
	return &ReconcileWorker{
		categories: categories,
		client:     client,
	}
}

// HandleCounterSync reconciles the category named by one message.
func (w *ReconcileWorker) HandleCounterSync(ctx context.Context, msg *amqp.CounterSyncMessage) error {
	slog.InfoContext(ctx, "Processing counter sync message",
		"user_id", msg.UserID,
		"category_id", msg.CategoryID)

	if msg.UserID == "" || msg.CategoryID == "" {
		slog.WarnContext(ctx, "Dropping malformed counter sync message",
			"user_id", msg.UserID,
			"category_id", msg.CategoryID)
		return nil
	}

	if err := w.categories.Reconcile(ctx, msg.UserID, msg.CategoryID); err != nil {
		return fmt.Errorf("reconcile category %s: %w", msg.CategoryID, err)
	}
	return nil
}

// Run consumes until the context is canceled or the delivery channel closes.
// Failed messages are nacked with requeue so a transient store outage does
// not lose them.
func (w *ReconcileWorker) Run(ctx context.Context) error {
	deliveries, err := w.client.Consume()
	if err != nil {
		return fmt.Errorf("start reconcile worker: %w", err)
	}

	slog.InfoContext(ctx, "Reconcile worker started")
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reconcile worker stopping", "reason", ctx.Err())
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			msg, err := amqp.CounterSyncMessageFromJSON(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Unparseable counter sync message", "error", err)
				_ = d.Nack(false, false) // drop, redelivery cannot fix it
				continue
			}
			if err := w.HandleCounterSync(ctx, msg); err != nil {
				slog.ErrorContext(ctx, "Counter sync failed",
					"category_id", msg.CategoryID, "error", err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}
