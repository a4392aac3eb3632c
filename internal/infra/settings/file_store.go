package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"
)

var _ repository.SettingsRepository = (*FileStore)(nil)

// document is the on-disk shape: {"channel_id": <int|null>}.
type document struct {
	ChannelID *int64 `json:"channel_id"`
}

// FileStore keeps the channel registration in a small JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns an empty registration for a missing file. A corrupt file yields an
// empty registration together with an error wrapping domain.ErrSettingsIO.
func (s *FileStore) Load(_ context.Context) (model.ChannelRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.ChannelRegistration{}, nil
	}
	if err != nil {
		return model.ChannelRegistration{}, fmt.Errorf("%w: read %s: %v", domain.ErrSettingsIO, s.path, err)
	}
	return decode(b)
}

// Save writes through a temp file and rename so readers never see a partial file.
func (s *FileStore) Save(_ context.Context, reg model.ChannelRegistration) error {
	b, err := encode(reg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("%w: create temp: %v", domain.ErrSettingsIO, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", domain.ErrSettingsIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", domain.ErrSettingsIO, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", domain.ErrSettingsIO, err)
	}
	return nil
}

func encode(reg model.ChannelRegistration) ([]byte, error) {
	b, err := json.Marshal(document{ChannelID: reg.ChannelID})
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrSettingsIO, err)
	}
	return b, nil
}

func decode(b []byte) (model.ChannelRegistration, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return model.ChannelRegistration{}, fmt.Errorf("%w: decode: %v", domain.ErrSettingsIO, err)
	}
	return model.ChannelRegistration{ChannelID: doc.ChannelID}, nil
}

// Encode and Decode expose the settings document format to other backends.
func Encode(reg model.ChannelRegistration) ([]byte, error) { return encode(reg) }

func Decode(b []byte) (model.ChannelRegistration, error) { return decode(b) }
