package amqp

import (
	"testing"
)

func TestCounterSyncMessageRoundTrip(t *testing.T) {
	msg := NewCounterSyncMessage("u1", "cat-food")
	if msg.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := CounterSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.UserID != "u1" || decoded.CategoryID != "cat-food" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if !decoded.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", decoded.Timestamp, msg.Timestamp)
	}
}

func TestCounterSyncMessageFromJSONInvalid(t *testing.T) {
	if _, err := CounterSyncMessageFromJSON([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestCounterSyncMessageFromJSONMissingFields(t *testing.T) {
	msg, err := CounterSyncMessageFromJSON([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.UserID != "" || msg.CategoryID != "" {
		t.Fatalf("msg = %+v", msg)
	}
}
