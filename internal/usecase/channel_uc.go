package usecase

import (
	"context"
	"sync"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ChannelUseCase = (*channelUC)(nil)

type ChannelUseCase interface {
	// Load reads the persisted registration; storage failures leave the bot unconfigured.
	Load(ctx context.Context) model.ChannelRegistration
	Current() model.ChannelRegistration
	// OnAdminGranted registers chatID when the bot becomes administrator of a channel or supergroup.
	// It reports whether the registration changed, in which case the chat should get a confirmation.
	OnAdminGranted(ctx context.Context, chatID int64, chatType string) bool
}

type channelUC struct {
	settings repository.SettingsRepository
	log      *zerolog.Logger

	mu  sync.RWMutex
	reg model.ChannelRegistration
}

func NewChannelUseCase(settings repository.SettingsRepository, logger *zerolog.Logger) *channelUC {
	l := logger.With().Str("component", "ChannelUC").Logger()
	return &channelUC{settings: settings, log: &l}
}

func (c *channelUC) Load(ctx context.Context) model.ChannelRegistration {
	reg, err := c.settings.Load(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to load settings; channel treated as not configured")
		reg = model.ChannelRegistration{}
	}
	c.mu.Lock()
	c.reg = reg
	c.mu.Unlock()
	if reg.Configured() {
		c.log.Info().Int64("channel_id", reg.ID()).Msg("channel registration loaded")
	} else {
		c.log.Info().Msg("no channel registered yet")
	}
	return reg
}

func (c *channelUC) Current() model.ChannelRegistration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reg
}

func (c *channelUC) OnAdminGranted(ctx context.Context, chatID int64, chatType string) bool {
	if !model.IsGateableChat(chatType) {
		c.log.Debug().Int64("chat_id", chatID).Str("chat_type", chatType).Msg("admin rights in non-gateable chat ignored")
		return false
	}
	reg := model.NewChannelRegistration(chatID)
	c.mu.Lock()
	c.reg = reg
	c.mu.Unlock()

	if err := c.settings.Save(ctx, reg); err != nil {
		c.log.Error().Err(err).Int64("channel_id", chatID).Msg("failed to persist channel registration")
	}
	c.log.Info().Int64("channel_id", chatID).Str("chat_type", chatType).Msg("channel registered")
	return true
}
