package amqp

import (
	"encoding/json"
	"time"
)

// CounterSyncMessage asks the worker to reconcile one category's denormalized
// counters. It carries only identifiers; the worker fetches current records
// from the data store so stale payloads cannot overwrite fresher state.
type CounterSyncMessage struct {
	UserID     string    `json:"userId"`
	CategoryID string    `json:"categoryId"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewCounterSyncMessage creates a sync message for one category.
func NewCounterSyncMessage(userID, categoryID string) *CounterSyncMessage {
	return &CounterSyncMessage{
		UserID:     userID,
		CategoryID: categoryID,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CounterSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CounterSyncMessageFromJSON creates a message from JSON bytes
func CounterSyncMessageFromJSON(data []byte) (*CounterSyncMessage, error) {
	var msg CounterSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
