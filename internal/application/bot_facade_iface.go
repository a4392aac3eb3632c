package application

import (
	"context"

	"telegram-captcha-gate/internal/domain/ports/adapter"
)

// Facade is the surface the Telegram adapter drives. Using an interface
// lets adapter tests run against a light-weight fake.
type Facade interface {
	HandleStart(ctx context.Context, tgID int64) Reply
	HandleHelp(ctx context.Context) Reply
	HandleRequestLink(ctx context.Context, tgID int64) Reply
	HandleAnswer(ctx context.Context, tgID int64, text string) Reply
	HandleAdminGranted(ctx context.Context, chatID int64, chatType string) Reply
}

var _ Facade = (*BotFacade)(nil)

// Reply is what the adapter should send back. An empty Reply means stay silent.
// When Image is set the reply is a photo with Text as its caption.
type Reply struct {
	Text    string
	Image   []byte
	Buttons [][]adapter.InlineButton
}

func (r Reply) Empty() bool {
	return r.Text == "" && len(r.Image) == 0
}
