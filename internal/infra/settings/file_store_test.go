//go:build !integration

package settings

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/model"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file means not configured", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "bot_settings.json"))
		reg, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if reg.Configured() {
			t.Error("expected not configured")
		}
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot_settings.json")
		s := NewFileStore(path)
		if err := s.Save(ctx, model.NewChannelRegistration(-1001234567890)); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		raw, _ := os.ReadFile(path)
		if string(raw) != `{"channel_id":-1001234567890}` {
			t.Errorf("unexpected file content %s", raw)
		}
		reg, err := NewFileStore(path).Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if reg.ID() != -1001234567890 {
			t.Errorf("unexpected id %d", reg.ID())
		}
		entries, _ := os.ReadDir(filepath.Dir(path))
		if len(entries) != 1 {
			t.Errorf("temp files left behind: %d entries", len(entries))
		}
	})

	t.Run("null channel id is not configured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot_settings.json")
		os.WriteFile(path, []byte(`{"channel_id": null}`), 0o600)
		reg, err := NewFileStore(path).Load(ctx)
		if err != nil || reg.Configured() {
			t.Fatalf("expected unconfigured without error, got %+v, %v", reg, err)
		}
	})

	t.Run("corrupt file is reported but unconfigured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bot_settings.json")
		os.WriteFile(path, []byte(`{"channel_id": `), 0o600)
		reg, err := NewFileStore(path).Load(ctx)
		if !errors.Is(err, domain.ErrSettingsIO) {
			t.Fatalf("expected ErrSettingsIO, got %v", err)
		}
		if reg.Configured() {
			t.Error("corrupt file must not configure a channel")
		}
	})

	t.Run("unwritable directory fails save", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "missing-dir", "bot_settings.json"))
		if err := s.Save(ctx, model.NewChannelRegistration(1)); !errors.Is(err, domain.ErrSettingsIO) {
			t.Fatalf("expected ErrSettingsIO, got %v", err)
		}
	})
}
