package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	kafkax "github.com/sistertele/phonestore/internal/kafka"
	"github.com/sistertele/phonestore/internal/orders"
	"github.com/sistertele/phonestore/internal/redisx"
)

// Service consumes order.placed events and records a customer confirmation.
// Event ids are deduped through Redis so redelivered messages send nothing.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderPlaced is wired as the consumer handler.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	} // ignore

	// dedup via Redis (event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	// refresh the status cache so GET /orders/{id} is hot right after placement
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	_ = s.Redis.Set(ctx, statusKey, `{"status":"PLACED"}`, redisx.TTLStatusCache).Err()

	logrus.WithFields(logrus.Fields{
		"order_id":    p.OrderID,
		"customer":    p.CustomerName,
		"email":       p.CustomerEmail,
		"total_minor": p.TotalMinor,
		"items":       len(p.Items),
		"producer":    env.Producer,
	}).Info("order confirmation queued")

	return nil
}
