// Package notify forwards order events to the real-time gateway.
package notify

import (
	"context"
	"log/slog"
	"time"

	"resto-api/logger"
)

type Event struct {
	Type      string      `json:"type"`
	Channel   string      `json:"channel"`
	RequestID string      `json:"request_id,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
	Payload   interface{} `json:"payload"`
}

const (
	EventOrdersCreated = "new-order"
	EventOrderUpdated  = "update-order"
	EventOrdersPaid    = "payment"
)

//go:generate mockgen -destination=../mocks/dispatcher.go -package=mocks resto-api/notify Dispatcher

// Dispatcher hands an event to the transport. Implementations return
// immediately; delivery is fire-and-forget.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}

type NoopDispatcher struct {
	log *logger.Logger
}

func NewNoopDispatcher(log *logger.Logger) *NoopDispatcher {
	return &NoopDispatcher{log: log}
}

func (d *NoopDispatcher) Dispatch(ctx context.Context, event Event) {
	d.log.Debug("notification_skipped", event.RequestID, "No real-time transport configured",
		slog.String("type", event.Type),
		slog.String("channel", event.Channel),
	)
}
