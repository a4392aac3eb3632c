package adapter

import (
	"context"
	"time"
)

type InlineButton struct {
	Text string
	Data string
	URL  string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
	SendButtons(ctx context.Context, telegramID int64, text string, rows [][]InlineButton) error
	SendPhoto(ctx context.Context, telegramID int64, image []byte, caption string) error
}

// ChannelManager creates invite links for the gated channel.
type ChannelManager interface {
	// CreateSingleUseInvite returns an invite URL admitting one member and expiring after ttl.
	CreateSingleUseInvite(ctx context.Context, channelID int64, ttl time.Duration) (string, error)
}
