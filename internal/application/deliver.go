package application

import (
	"context"

	"telegram-captcha-gate/internal/domain/ports/adapter"
)

// Deliver sends reply to chatID through bot. Empty replies send nothing.
func Deliver(ctx context.Context, bot adapter.TelegramBotAdapter, chatID int64, reply Reply) error {
	switch {
	case len(reply.Image) > 0:
		return bot.SendPhoto(ctx, chatID, reply.Image, reply.Text)
	case len(reply.Buttons) > 0:
		return bot.SendButtons(ctx, chatID, reply.Text, reply.Buttons)
	case reply.Text != "":
		return bot.SendMessage(ctx, chatID, reply.Text)
	default:
		return nil
	}
}
