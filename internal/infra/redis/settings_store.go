package redis

import (
	"context"
	"errors"
	"fmt"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"
	"telegram-captcha-gate/internal/infra/settings"

	"github.com/go-redis/redis/v8"
)

// Ensure the adapter implements the port interface.
var _ repository.SettingsRepository = (*SettingsStore)(nil)

// SettingsStore keeps the settings document under a single key without expiry.
type SettingsStore struct {
	client RedisClient
	key    string
}

func NewSettingsStore(client RedisClient, key string) *SettingsStore {
	return &SettingsStore{client: client, key: key}
}

func (s *SettingsStore) Load(ctx context.Context) (model.ChannelRegistration, error) {
	data, err := s.client.Get(ctx, s.key)
	if errors.Is(err, redis.Nil) {
		return model.ChannelRegistration{}, nil
	}
	if err != nil {
		return model.ChannelRegistration{}, fmt.Errorf("%w: redis get %s: %v", domain.ErrSettingsIO, s.key, err)
	}
	return settings.Decode([]byte(data))
}

func (s *SettingsStore) Save(ctx context.Context, reg model.ChannelRegistration) error {
	data, err := settings.Encode(reg)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", domain.ErrSettingsIO, s.key, err)
	}
	return nil
}
