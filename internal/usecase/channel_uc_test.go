//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/usecase"
)

func TestChannelUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("should load a persisted registration", func(t *testing.T) {
		repo := &MockSettingsRepo{
			LoadFunc: func(ctx context.Context) (model.ChannelRegistration, error) {
				return model.NewChannelRegistration(-100500), nil
			},
		}
		uc := usecase.NewChannelUseCase(repo, newTestLogger())
		reg := uc.Load(ctx)
		if !reg.Configured() || reg.ID() != -100500 {
			t.Fatalf("unexpected registration %+v", reg)
		}
		if uc.Current().ID() != -100500 {
			t.Error("Current should reflect the loaded registration")
		}
	})

	t.Run("should treat load failures as not configured", func(t *testing.T) {
		repo := &MockSettingsRepo{
			LoadFunc: func(ctx context.Context) (model.ChannelRegistration, error) {
				return model.NewChannelRegistration(1), errors.New("corrupt")
			},
		}
		uc := usecase.NewChannelUseCase(repo, newTestLogger())
		if uc.Load(ctx).Configured() || uc.Current().Configured() {
			t.Fatal("expected not configured after load failure")
		}
	})

	t.Run("should register channels and supergroups", func(t *testing.T) {
		for _, chatType := range []string{model.ChatTypeChannel, model.ChatTypeSupergroup} {
			repo := &MockSettingsRepo{}
			uc := usecase.NewChannelUseCase(repo, newTestLogger())
			if !uc.OnAdminGranted(ctx, -100777, chatType) {
				t.Fatalf("%s: expected registration", chatType)
			}
			if uc.Current().ID() != -100777 {
				t.Errorf("%s: current not updated", chatType)
			}
			saved := repo.Saved()
			if len(saved) != 1 || saved[0].ID() != -100777 {
				t.Errorf("%s: expected persisted registration, got %+v", chatType, saved)
			}
		}
	})

	t.Run("should ignore other chat types", func(t *testing.T) {
		repo := &MockSettingsRepo{}
		uc := usecase.NewChannelUseCase(repo, newTestLogger())
		if uc.OnAdminGranted(ctx, 555, "group") {
			t.Fatal("plain groups must not be registered")
		}
		if uc.Current().Configured() || len(repo.Saved()) != 0 {
			t.Error("nothing should change for a plain group")
		}
	})

	t.Run("should keep the registration when persisting fails", func(t *testing.T) {
		repo := &MockSettingsRepo{SaveErr: errors.New("disk full")}
		uc := usecase.NewChannelUseCase(repo, newTestLogger())
		if !uc.OnAdminGranted(ctx, -100888, model.ChatTypeChannel) {
			t.Fatal("expected registration despite write failure")
		}
		if uc.Current().ID() != -100888 {
			t.Error("in-memory registration should be kept")
		}
	})
}
