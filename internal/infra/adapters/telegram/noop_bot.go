package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-captcha-gate/internal/domain/ports/adapter"
)

var (
	_ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)
	_ adapter.ChannelManager     = (*NoopChannelManager)(nil)
)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local runs.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log *zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	l := logger.With().Str("component", "NoopBot").Logger()
	return &NoopBotAdapter{log: &l}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	if err := pause(ctx); err != nil {
		return err
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Msg("send message")
	return nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	if err := pause(ctx); err != nil {
		return err
	}
	b.log.Info().Int64("tg_id", tgID).Str("text", text).Interface("buttons", rows).Msg("send buttons")
	return nil
}

func (b *NoopBotAdapter) SendPhoto(ctx context.Context, tgID int64, image []byte, caption string) error {
	if err := pause(ctx); err != nil {
		return err
	}
	b.log.Info().Int64("tg_id", tgID).Int("bytes", len(image)).Str("caption", caption).Msg("send photo")
	return nil
}

// pause simulates a little network latency and respects ctx.
func pause(ctx context.Context) error {
	select {
	case <-time.After(20 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NoopChannelManager hands out fake invite links.
type NoopChannelManager struct {
	mu sync.Mutex
	n  int
}

func (m *NoopChannelManager) CreateSingleUseInvite(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
	if err := pause(ctx); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("https://t.me/+noop%d_%d", channelID, m.n), nil
}
