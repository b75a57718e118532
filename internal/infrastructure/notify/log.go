// Package notify carries operator-facing, toast-style notifications out of
// the session subsystem. Delivery is fire-and-forget: implementations log or
// publish and never block or fail the caller.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hdfops/field-console/internal/core/domain"
)

// LogNotifier writes notifications to the structured log. It is always
// active; richer transports (Kafka) are layered on top with Multi.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) {
	event := n.log.Info()
	if note.Severity == domain.SeverityError || note.Severity == domain.SeverityWarning {
		event = n.log.Warn()
	}
	event.
		Str("severity", string(note.Severity)).
		Str("code", note.Code).
		Msg(note.Message)
}
