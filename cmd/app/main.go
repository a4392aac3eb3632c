// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/config"
	"telegram-captcha-gate/internal/domain/ports/repository"
	"telegram-captcha-gate/internal/infra/adapters/captcha"
	tele "telegram-captcha-gate/internal/infra/adapters/telegram"
	"telegram-captcha-gate/internal/infra/api"
	"telegram-captcha-gate/internal/infra/logging"
	"telegram-captcha-gate/internal/infra/memory"
	"telegram-captcha-gate/internal/infra/metrics"
	red "telegram-captcha-gate/internal/infra/redis"
	"telegram-captcha-gate/internal/infra/sched"
	"telegram-captcha-gate/internal/infra/settings"
	"telegram-captcha-gate/internal/usecase"
)

// set via -ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose, unredacted logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Settings ----
	settingsRepo, closeSettings, err := newSettingsRepo(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("settings backend")
	}
	defer closeSettings()

	// ---- Telegram ----
	bot, err := tele.NewBotAPI(&cfg.Bot)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	logger.Info().Str("bot", bot.Self.UserName).Str("version", version).Msg("authorized")

	// ---- Use cases ----
	verificationUC := usecase.NewVerificationUseCase(memory.NewSessionStore(), usecase.VerificationConfig{
		Attempts: cfg.Captcha.Attempts,
		TTL:      cfg.Captcha.TTL,
	}, logger)
	linkUC := usecase.NewLinkUseCase(memory.NewIssuedLinkStore(), tele.NewInviteManager(bot), usecase.LinkConfig{
		TTL:     cfg.Invite.TTL,
		Timeout: cfg.Invite.Timeout,
	}, logger)
	channelUC := usecase.NewChannelUseCase(settingsRepo, logger)
	channelUC.Load(ctx)

	// ---- Facade ----
	facade := application.NewBotFacade(verificationUC, linkUC, channelUC, captcha.NewImageRenderer(cfg.Captcha.Length), cfg.Runtime.Dev, logger)

	botAdapter, err := tele.NewRealTelegramBotAdapter(bot, facade, cfg.Bot.Workers, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter")
	}
	if strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot.mode not implemented; falling back to polling")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
			cancel()
		}
	}()

	// ---- Admin HTTP ----
	adminSrv := api.NewServer(channelUC, verificationUC, cfg.Admin.APIKey, logger)
	go func() {
		if err := adminSrv.ListenAndServe(ctx, fmt.Sprintf(":%d", cfg.Admin.Port)); err != nil {
			logger.Error().Err(err).Msg("admin http server error")
		}
	}()

	// ---- Expiry worker ----
	worker := sched.NewExpiryWorker(cfg.Sweeper.Interval, verificationUC, linkUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()
	botAdapter.StopPolling()
}

func newSettingsRepo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.SettingsRepository, func(), error) {
	switch cfg.Settings.Backend {
	case config.SettingsBackendRedis:
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}
		logger.Info().Str("key", cfg.Redis.Key).Msg("settings stored in redis")
		return red.NewSettingsStore(client, cfg.Redis.Key), func() { _ = client.Close() }, nil
	default:
		logger.Info().Str("path", cfg.Settings.Path).Msg("settings stored on disk")
		return settings.NewFileStore(cfg.Settings.Path), func() {}, nil
	}
}
