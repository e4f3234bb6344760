package services

import "context"

// EventPublisher publishes counter-sync events after transaction mutations so
// the reconcile worker can converge denormalized category counters. A nil
// publisher disables eventing; mutations still reconcile inline.
type EventPublisher interface {
	PublishCounterSync(ctx context.Context, userID, categoryID string) error
}
