package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/infra/logging"
	"telegram-captcha-gate/internal/infra/metrics"
)

type cbHandler func(ctx context.Context, userID, chatID int64) error

// Exact-match callbacks
func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		application.CallbackRequestLink: r.handleRequestLink,
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, "")) }()

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}
	ctx = logging.WithTgID(ctx, query.From.ID)

	data := strings.TrimSpace(query.Data)
	fn, ok := r.cbRoutes()[data]
	if !ok {
		logging.With(ctx, r.log).Debug().Str("data", data).Msg("unknown callback data ignored")
		return nil
	}
	metrics.IncTelegramCommand("cb:" + data)
	return fn(ctx, query.From.ID, chatID)
}

func (r *RealTelegramBotAdapter) handleRequestLink(ctx context.Context, userID, chatID int64) error {
	reply := r.facade.HandleRequestLink(ctx, userID)
	return application.Deliver(ctx, r, chatID, reply)
}
