package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/config"
	"telegram-captcha-gate/internal/domain/ports/adapter"
	"telegram-captcha-gate/internal/infra/logging"
	"telegram-captcha-gate/internal/infra/metrics"
	"telegram-captcha-gate/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// botAPI is the part of *tgbotapi.BotAPI the adapter uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

const msgInternalError = "Something went wrong. Please try again."

// NewBotAPI connects to Telegram with the configured token.
func NewBotAPI(cfg *config.BotConfig) (*tgbotapi.BotAPI, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	bot.Debug = cfg.Debug
	return bot, nil
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to the bot facade.
type RealTelegramBotAdapter struct {
	bot    botAPI
	facade application.Facade
	log    *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(bot botAPI, facade application.Facade, updateWorkers int, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if bot == nil {
		return nil, errors.New("bot api is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if updateWorkers <= 0 {
		updateWorkers = 5
	}
	l := logger.With().Str("component", "TelegramAdapter").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		facade:        facade,
		log:           &l,
		updateWorkers: updateWorkers,
	}, nil
}

// StartPolling receives updates until ctx is cancelled. Updates of one user are
// handled in arrival order by a single worker; different users are handled concurrently.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query", "my_chat_member"}
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel
	defer cancel()

	pool := worker.NewPool(r.updateWorkers, 64, r.log)
	pool.Start(ctx)
	defer pool.Stop()

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return errors.New("telegram updates channel closed")
			}
			key, ok := updateKey(up)
			if !ok {
				continue
			}
			if err := pool.Submit(ctx, key, func(ctx context.Context) error {
				return r.handleUpdate(ctx, up)
			}); err != nil && ctx.Err() == nil {
				r.log.Warn().Err(err).Int("update_id", up.UpdateID).Msg("failed to queue update")
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// updateKey picks the serialization key: the acting user, or the chat for membership changes.
func updateKey(up tgbotapi.Update) (int64, bool) {
	switch {
	case up.CallbackQuery != nil && up.CallbackQuery.From != nil:
		return up.CallbackQuery.From.ID, true
	case up.Message != nil && up.Message.From != nil:
		return up.Message.From.ID, true
	case up.MyChatMember != nil:
		return up.MyChatMember.Chat.ID, true
	default:
		return 0, false
	}
}

// handleUpdate is the failure boundary of one update: errors and panics are logged,
// counted and answered with a generic message, and never reach other updates.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) (err error) {
	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	chatID := replyChatID(update)
	if chatID != 0 {
		ctx = logging.WithChatID(ctx, chatID)
	}
	l := logging.With(ctx, r.log)

	defer func() {
		if rec := recover(); rec != nil {
			l.Error().Interface("panic", rec).Msg("panic while handling update")
			err = nil
			r.failed(ctx, chatID)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		err = r.handleQuery(ctx, update.CallbackQuery)
	case update.MyChatMember != nil:
		err = r.handleMyChatMember(ctx, update.MyChatMember)
	case update.Message != nil:
		err = r.handleMessage(ctx, update.Message)
	}
	if err != nil {
		l.Error().Err(err).Msg("update handler failed")
		r.failed(ctx, chatID)
	}
	return nil
}

func (r *RealTelegramBotAdapter) failed(ctx context.Context, chatID int64) {
	metrics.IncHandlerError()
	if chatID == 0 {
		return
	}
	if err := r.SendMessage(ctx, chatID, msgInternalError); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("failed to report error to user")
	}
}

func replyChatID(update tgbotapi.Update) int64 {
	switch {
	case update.CallbackQuery != nil:
		if m := update.CallbackQuery.Message; m != nil && m.Chat != nil {
			return m.Chat.ID
		}
		if update.CallbackQuery.From != nil {
			return update.CallbackQuery.From.ID
		}
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	}
	return 0
}

func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || message.Chat == nil {
		return nil
	}
	ctx = logging.WithTgID(ctx, message.From.ID)

	if message.IsCommand() {
		if fn, ok := r.commandRoutes()[strings.ToLower(message.Command())]; ok {
			metrics.IncTelegramCommand("/" + message.Command())
			return fn(ctx, message)
		}
	}

	// photos, stickers and the like are not answers
	if strings.TrimSpace(message.Text) == "" {
		return nil
	}
	metrics.IncTelegramCommand("message")
	reply := r.facade.HandleAnswer(ctx, message.From.ID, message.Text)
	return application.Deliver(ctx, r, message.Chat.ID, reply)
}

// handleMyChatMember reacts to the bot's own membership changes; only a promotion
// to administrator matters.
func (r *RealTelegramBotAdapter) handleMyChatMember(ctx context.Context, upd *tgbotapi.ChatMemberUpdated) error {
	metrics.IncTelegramCommand("my_chat_member")
	if upd.NewChatMember.Status != "administrator" || upd.OldChatMember.Status == "administrator" {
		return nil
	}
	reply := r.facade.HandleAdminGranted(ctx, upd.Chat.ID, upd.Chat.Type)
	if reply.Empty() {
		return nil
	}
	if err := application.Deliver(ctx, r, upd.Chat.ID, reply); err != nil {
		// the registration stands even if the confirmation cannot be posted
		logging.With(ctx, r.log).Warn().Err(err).Int64("channel_id", upd.Chat.ID).Msg("failed to post channel confirmation")
	}
	return nil
}

// SendMessage sends plain text to a chat.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(tgID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with inline buttons using tgbotapi.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, telegramID int64, text string, rows [][]adapter.InlineButton) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		kbRows = append(kbRows, kbRow)
	}

	msg := tgbotapi.NewMessage(telegramID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := r.bot.Send(msg)
	return err
}

// SendPhoto uploads a PNG with a caption.
func (r *RealTelegramBotAdapter) SendPhoto(ctx context.Context, telegramID int64, image []byte, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := tgbotapi.NewPhoto(telegramID, tgbotapi.FileBytes{Name: "captcha.png", Bytes: image})
	photo.Caption = caption
	_, err := r.bot.Send(photo)
	return err
}
