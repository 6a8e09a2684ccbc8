package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
)

const publishTimeout = 5 * time.Second

// Tables whose inserts are relayed.
var Tables = []string{"registrations", "messages", "chat_messages"}

// Publisher sends one message. *AMQPPublisher implements it.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// Relay copies inserts from the broker to a Publisher.
type Relay struct {
	subscriber service.ChangeSubscriber
	publisher  Publisher
}

func New(subscriber service.ChangeSubscriber, publisher Publisher) *Relay {
	return &Relay{subscriber: subscriber, publisher: publisher}
}

// RoutingKey is "<table>.<type>", e.g. "registrations.INSERT".
func RoutingKey(c realtime.Change) string {
	return c.Table + "." + string(c.Type)
}

// Run relays until ctx is done. Publish failures are logged and skipped.
func (r *Relay) Run(ctx context.Context) error {
	topics := make([]realtime.Topic, 0, len(Tables))
	for _, t := range Tables {
		topics = append(topics, realtime.Topic{Table: t, Events: []realtime.EventType{realtime.Insert}})
	}
	sub := r.subscriber.Subscribe("amqp-relay", topics...)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-sub.Changes():
			if !ok {
				return nil
			}
			r.forward(ctx, c)
		}
	}
}

func (r *Relay) forward(ctx context.Context, c realtime.Change) {
	body, err := json.Marshal(c)
	if err != nil {
		slog.Error("relay: marshal change failed", "table", c.Table, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	key := RoutingKey(c)
	if err := r.publisher.Publish(ctx, key, body); err != nil {
		slog.Error("relay: publish failed", "routing_key", key, "error", err)
		return
	}
	slog.Debug("relay: change published", "routing_key", key)
}
