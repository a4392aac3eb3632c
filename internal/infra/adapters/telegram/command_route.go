package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-captcha-gate/internal/application"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes maps bot commands to handlers. Unknown commands fall through to
// captcha answer handling.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,
	}
}

func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply := r.facade.HandleStart(ctx, message.From.ID)
	return application.Deliver(ctx, r, message.Chat.ID, reply)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return application.Deliver(ctx, r, message.Chat.ID, r.facade.HandleHelp(ctx))
}
