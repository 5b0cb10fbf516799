package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/pictora/pictora/pkg/logging"
)

// Message is a push notification payload
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers push notifications to device tokens. Delivery is
// best-effort: callers treat failures as log-only and never fail the
// triggering request on them.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) error
}

// Dispatch sends a notification in the background. The triggering
// request returns regardless of delivery outcome.
func Dispatch(sender Sender, tokens []string, msg Message) {
	if sender == nil || len(tokens) == 0 {
		return
	}
	go func() {
		if err := sender.Send(context.Background(), tokens, msg); err != nil {
			logging.WithComponent("notify").Warn("Push delivery failed",
				zap.String("title", msg.Title),
				zap.Int("tokens", len(tokens)),
				zap.Error(err))
		}
	}()
}

// NoopSender discards all notifications. Used when push is disabled.
type NoopSender struct{}

// Send implements Sender
func (NoopSender) Send(ctx context.Context, tokens []string, msg Message) error {
	return nil
}
