// Package redis publica los eventos del ledger en un canal Pub/Sub para que otras
// instalaciones se sincronicen.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

var _ ledger.EventSink = (*EventPublisher)(nil)

// DefaultChannel canal usado cuando REDIS_CHANNEL está vacío.
const DefaultChannel = "ventas:ledger"

// EventPublisher implementa ledger.EventSink con PUBLISH.
type EventPublisher struct {
	client  goredis.UniversalClient
	channel string
}

// Connect crea el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewEventPublisher construye el publicador sobre un cliente existente.
func NewEventPublisher(client goredis.UniversalClient, channel string) *EventPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &EventPublisher{client: client, channel: channel}
}

// Channel devuelve el canal de publicación.
func (p *EventPublisher) Channel() string { return p.channel }

// Publish serializa el evento como JSON y lo publica.
func (p *EventPublisher) Publish(ctx context.Context, event ledger.Event) error {
	payload, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", event.Type, err)
	}
	return nil
}

func encode(event ledger.Event) ([]byte, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", event.Type, err)
	}
	return b, nil
}
