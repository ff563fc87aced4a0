// Package realtime publica eventos de la cartelera para los clientes conectados a las pantallas.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/pkg/config"
)

// Message cuerpo publicado en cada canal.
type Message struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Action    string    `json:"action"`
	Data      any       `json:"data"`
	EmittedAt time.Time `json:"emitted_at"`
}

var _ ports.Notifier = (*RedisNotifier)(nil)

// RedisNotifier publica con PUBLISH en "{prefix}:{event}".
type RedisNotifier struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

// NewRedisNotifier crea el cliente de Redis. No abre conexión hasta el primer uso.
func NewRedisNotifier(cfg config.RedisConfig, log zerolog.Logger) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedisNotifier(client, cfg.ChannelPrefix, log)
}

func newRedisNotifier(client *redis.Client, prefix string, log zerolog.Logger) *RedisNotifier {
	if prefix == "" {
		prefix = "cartelera"
	}
	return &RedisNotifier{
		client: client,
		prefix: prefix,
		log:    log.With().Str("component", "redis_notifier").Logger(),
	}
}

// Channel nombre del canal para un evento.
func (n *RedisNotifier) Channel(event string) string {
	return n.prefix + ":" + event
}

func (n *RedisNotifier) Publish(ctx context.Context, event, action string, data any) error {
	msg := Message{
		ID:        uuid.NewString(),
		Event:     event,
		Action:    action,
		Data:      data,
		EmittedAt: time.Now().UTC(),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", event, err)
	}
	receivers, err := n.client.Publish(ctx, n.Channel(event), body).Result()
	if err != nil {
		return fmt.Errorf("publicar evento %s: %w", event, err)
	}
	n.log.Debug().Str("event", event).Str("action", action).Int64("receivers", receivers).Msg("evento publicado")
	return nil
}

// Ping verifica la conexión.
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
