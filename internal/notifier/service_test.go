package notifier

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
)

// Messages of other event types and malformed envelopes are decided before
// any Redis lookup, so a nil client is fine here.
func TestHandleOrderCreatedFiltering(t *testing.T) {
	s := &Service{ServiceName: "notifier-test"}

	msg := kafkago.Message{Value: []byte(`{"event_type":"SomethingElse","event_id":"e1","payload":{}}`)}
	if err := s.HandleOrderCreated(context.Background(), msg); err != nil {
		t.Fatalf("foreign event type should be ignored, got %v", err)
	}

	if err := s.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte(`{`)}); err == nil {
		t.Fatal("malformed envelope should fail so the offset is not committed")
	}
}
