// Command demo walks one user through the captcha gate offline, using the
// logging Telegram adapter and fake invite links.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/config"
	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/infra/adapters/captcha"
	tele "telegram-captcha-gate/internal/infra/adapters/telegram"
	"telegram-captcha-gate/internal/infra/logging"
	"telegram-captcha-gate/internal/infra/memory"
	"telegram-captcha-gate/internal/infra/settings"
	"telegram-captcha-gate/internal/usecase"
)

// recordingRenderer remembers the last challenge so the demo can answer it.
type recordingRenderer struct {
	inner *captcha.ImageRenderer
	last  string
}

func (r *recordingRenderer) Render() (string, []byte, error) {
	challenge, img, err := r.inner.Render()
	r.last = challenge
	return challenge, img, err
}

func main() {
	wrong := flag.Int("wrong", 1, "wrong answers to send before the right one")
	flag.Parse()

	logger := logging.New(config.LogConfig{Level: "debug", Format: "console"}, true)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dir, err := os.MkdirTemp("", "captcha-gate-demo")
	if err != nil {
		logger.Fatal().Err(err).Msg("temp dir")
	}
	defer os.RemoveAll(dir)

	renderer := &recordingRenderer{inner: captcha.NewImageRenderer(6)}
	verificationUC := usecase.NewVerificationUseCase(memory.NewSessionStore(), usecase.VerificationConfig{}, logger)
	linkUC := usecase.NewLinkUseCase(memory.NewIssuedLinkStore(), &tele.NoopChannelManager{}, usecase.LinkConfig{}, logger)
	channelUC := usecase.NewChannelUseCase(settings.NewFileStore(filepath.Join(dir, "bot_settings.json")), logger)
	facade := application.NewBotFacade(verificationUC, linkUC, channelUC, renderer, true, logger)
	bot := tele.NewNoopBotAdapter(logger)

	const (
		channelID = int64(-1001234567890)
		userID    = int64(42424242)
	)
	send := func(chatID int64, reply application.Reply) {
		if err := application.Deliver(ctx, bot, chatID, reply); err != nil {
			logger.Fatal().Err(err).Msg("deliver")
		}
	}

	send(userID, facade.HandleStart(ctx, userID))
	send(channelID, facade.HandleAdminGranted(ctx, channelID, model.ChatTypeChannel))
	send(userID, facade.HandleStart(ctx, userID))
	send(userID, facade.HandleRequestLink(ctx, userID))
	for i := 0; i < *wrong; i++ {
		send(userID, facade.HandleAnswer(ctx, userID, "nope"))
	}
	send(userID, facade.HandleAnswer(ctx, userID, renderer.last))

	logger.Info().Int("active_sessions", verificationUC.ActiveSessions()).Msg("demo finished")
}
