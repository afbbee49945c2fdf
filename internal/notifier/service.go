// Package notifier consumes order.created events and fans out a new-order
// notification per shop involved in the order. Delivery is a log line; the
// push channel sits outside this service.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/minkhant-dev/foodcourt/internal/orders"
	"github.com/minkhant-dev/foodcourt/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCreated is installed as the consumer handler. Events are
// deduped by event_id in Redis so a redelivered message notifies nobody
// twice.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	var p orders.OrderCreatedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return err
	}

	for _, shopID := range p.ShopIDs {
		log.Printf("%s: notify shop=%s order=%s items=%d user=%s",
			s.ServiceName, shopID, p.OrderID, p.ItemCount, p.UserID)
	}
	return nil
}
