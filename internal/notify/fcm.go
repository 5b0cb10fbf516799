package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/pictora/pictora/pkg/config"
	"github.com/pictora/pictora/pkg/logging"
)

// multicastLimit is FCM's maximum token count per multicast request
const multicastLimit = 500

// FCMSender delivers notifications through Firebase Cloud Messaging
type FCMSender struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewSender creates the configured push sender. When push is disabled
// a NoopSender is returned.
func NewSender(ctx context.Context, cfg *config.PushConfig) (Sender, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Push notifications disabled")
		return NoopSender{}, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	logging.GetLogger().Info("FCM sender initialized")

	return &FCMSender{
		client: client,
		logger: logging.WithComponent("fcm"),
	}, nil
}

// Send multicasts the message to all tokens, batching to FCM's limit
func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) error {
	for _, batch := range chunkTokens(tokens, multicastLimit) {
		resp, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		})
		if err != nil {
			return err
		}
		if resp.FailureCount > 0 {
			s.logger.Warn("Some deliveries failed",
				zap.Int("success", resp.SuccessCount),
				zap.Int("failure", resp.FailureCount))
		}
	}
	return nil
}

// chunkTokens splits tokens into batches of at most size
func chunkTokens(tokens []string, size int) [][]string {
	if len(tokens) == 0 {
		return nil
	}
	var batches [][]string
	for len(tokens) > size {
		batches = append(batches, tokens[:size])
		tokens = tokens[size:]
	}
	return append(batches, tokens)
}
