package realtime

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/cartelera-api/internal/application/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier solo registra el evento. Se usa cuando no hay Redis configurado.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "log_notifier").Logger()}
}

func (n *LogNotifier) Publish(_ context.Context, event, action string, data any) error {
	n.log.Info().Str("event", event).Str("action", action).Interface("data", data).Msg("evento emitido")
	return nil
}
