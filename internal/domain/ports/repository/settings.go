package repository

import (
	"context"

	"telegram-captcha-gate/internal/domain/model"
)

// SettingsRepository persists the channel registration.
type SettingsRepository interface {
	Load(ctx context.Context) (model.ChannelRegistration, error)
	Save(ctx context.Context, reg model.ChannelRegistration) error
}
