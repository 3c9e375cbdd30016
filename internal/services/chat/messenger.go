// Package chat defines what the bot needs from a chat platform.
package chat

//go:generate mockgen -package=mocks -destination=mocks/mock_messenger.go github.com/KirkDiggler/ticketsnipe/internal/services/chat Messenger

import (
	"context"

	"github.com/KirkDiggler/ticketsnipe/internal/models"
)

// Messenger posts to and reads from chat channels
type Messenger interface {
	// Send posts content to a channel and returns the new message id
	Send(ctx context.Context, channelID, content string) (string, error)

	// Reply posts content as a reply to msg
	Reply(ctx context.Context, msg *models.Message, content string) (string, error)

	// Typing shows a typing indicator in the channel
	Typing(ctx context.Context, channelID string) error

	// RecentMessages returns up to limit messages, newest first
	RecentMessages(ctx context.Context, channelID string, limit int) ([]*models.Message, error)

	// SelfID is the bot's own user id
	SelfID() string
}
