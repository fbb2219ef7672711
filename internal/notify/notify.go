// Package notify carries user-facing notices from the order engine to whatever
// surface displays them.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice for the rendering side.
type Kind string

const (
	KindAlert  Kind = "alert"
	KindAuth   Kind = "auth"
	KindAppeal Kind = "appeal"
	KindInfo   Kind = "info"
)

// Notice is a dismissible message about an order.
type Notice struct {
	ID        string
	OrderID   string
	ViewerID  string
	Kind      Kind
	Message   string
	CreatedAt time.Time
}

// New builds a notice with a fresh identifier.
func New(orderID, viewerID string, kind Kind, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		ViewerID:  viewerID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// Sink receives notices. Implementations must not block for long.
type Sink interface {
	Notify(ctx context.Context, n Notice)
}

type logSink struct {
	logger *slog.Logger
}

// Log returns a sink writing every notice to logger.
func Log(logger *slog.Logger) Sink {
	return logSink{logger: logger}
}

func (s logSink) Notify(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Kind == KindAlert || n.Kind == KindAuth {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "order notice",
		slog.String("notice_id", n.ID),
		slog.String("order", n.OrderID),
		slog.String("viewer", n.ViewerID),
		slog.String("kind", string(n.Kind)),
		slog.String("message", n.Message),
	)
}

type fanout []Sink

// Fanout delivers each notice to every non-nil sink in order.
func Fanout(sinks ...Sink) Sink {
	out := make(fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f fanout) Notify(ctx context.Context, n Notice) {
	for _, s := range f {
		s.Notify(ctx, n)
	}
}
