package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTipReceived is emitted by the service when a donation is recorded for a streamer.
	KindTipReceived = "tip_received"
	// KindTipSent is shown to a donor once the wallet confirms a tip transaction.
	KindTipSent = "tip_sent"
	// KindTipFailed is shown to a donor when a tip attempt fails for any reason.
	KindTipFailed = "tip_failed"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to whoever is watching: a streamer's alert feed on the
// service side, the donor's terminal on the client side.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger. Failures are logged at error level.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	level := slog.LevelInfo
	if message.Kind == KindTipFailed {
		level = slog.LevelError
	}
	n.logger.Log(ctx, level, "notification",
		slog.String("kind", message.Kind),
		slog.String("destination", message.Destination),
		slog.String("body", message.Body),
	)
	return nil
}

// Recorder keeps every message it is sent. Tests use it to assert on notifications.
type Recorder struct {
	Messages []Message
}

// Send appends message.
func (r *Recorder) Send(_ context.Context, message Message) error {
	r.Messages = append(r.Messages, message)
	return nil
}

// Count returns how many messages of kind were sent.
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, m := range r.Messages {
		if m.Kind == kind {
			n++
		}
	}
	return n
}
