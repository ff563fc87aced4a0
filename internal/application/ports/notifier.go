package ports

import "context"

// Eventos publicados al canal en tiempo real.
const (
	EventCourse = "course"
)

// Notifier publica cambios para las pantallas suscriptas.
// Un error de publicación nunca debe hacer fallar la operación que lo originó.
type Notifier interface {
	Publish(ctx context.Context, event, action string, data any) error
}
