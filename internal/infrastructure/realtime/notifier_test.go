package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
)

func TestLogNotifier_Publish(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	err := n.Publish(context.Background(), ports.EventCourse, "created", map[string]any{"id": 7})
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "course", line["event"])
	assert.Equal(t, "created", line["action"])
	assert.Equal(t, "log_notifier", line["component"])
}

func TestRedisNotifier_Channel(t *testing.T) {
	n := newRedisNotifier(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "", zerolog.Nop())
	assert.Equal(t, "cartelera:course", n.Channel(ports.EventCourse))
}

// setupRedis levanta Redis en un contenedor.
func setupRedis(t *testing.T) string {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("test de integración omitido: TEST_INTEGRATION no definida")
	}
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return endpoint
}

func TestRedisNotifier_Publish_Integration(t *testing.T) {
	addr := setupRedis(t)
	ctx := context.Background()

	sub := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = sub.Close() })
	ps := sub.Subscribe(ctx, "test:course")
	t.Cleanup(func() { _ = ps.Close() })
	_, err := ps.Receive(ctx)
	require.NoError(t, err)

	n := newRedisNotifier(redis.NewClient(&redis.Options{Addr: addr}), "test", zerolog.Nop())
	t.Cleanup(func() { _ = n.Close() })
	require.NoError(t, n.Ping(ctx))
	require.NoError(t, n.Publish(ctx, ports.EventCourse, "updated", map[string]any{"id": 3}))

	select {
	case msg := <-ps.Channel():
		var got Message
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, "course", got.Event)
		assert.Equal(t, "updated", got.Action)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.EmittedAt.IsZero())
	case <-time.After(5 * time.Second):
		t.Fatal("no llegó el mensaje")
	}
}
