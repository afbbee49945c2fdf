package orders

import (
	"encoding/json"
	"time"
)

const EventOrderCreated = "OrderCreated"

// Envelope is the versioned wrapper every published event travels in.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// OrderCreatedPayload tells downstream consumers which shops have pending
// items to review. Approval and rejection publish nothing; their only side
// effect is the persisted status change.
type OrderCreatedPayload struct {
	OrderID    string   `json:"order_id"`
	UserID     string   `json:"user_id"`
	ShopIDs    []string `json:"shop_ids"`
	ItemCount  int      `json:"item_count"`
	GrandTotal string   `json:"grand_total"`
}
