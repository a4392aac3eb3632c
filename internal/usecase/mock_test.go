package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"telegram-captcha-gate/internal/domain/model"

	"github.com/rs/zerolog"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// --- Fake clock

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// --- Mock ChannelManager

type inviteCall struct {
	ChannelID   int64
	TTL         time.Duration
	HasDeadline bool
}

type MockChannelManager struct {
	mu    sync.Mutex
	calls []inviteCall

	CreateFunc func(ctx context.Context, channelID int64, ttl time.Duration) (string, error)
}

func (m *MockChannelManager) CreateSingleUseInvite(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
	_, hasDeadline := ctx.Deadline()
	m.mu.Lock()
	m.calls = append(m.calls, inviteCall{ChannelID: channelID, TTL: ttl, HasDeadline: hasDeadline})
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, channelID, ttl)
	}
	return "https://t.me/+invite", nil
}

func (m *MockChannelManager) Calls() []inviteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]inviteCall(nil), m.calls...)
}

// --- Mock IssuedLinkRepository

type MockIssuedLinkRepo struct {
	mu      sync.Mutex
	links   map[string]model.IssuedLink
	lookups []string
}

func NewMockIssuedLinkRepo() *MockIssuedLinkRepo {
	return &MockIssuedLinkRepo{links: make(map[string]model.IssuedLink)}
}

func (m *MockIssuedLinkRepo) HasNonce(_ context.Context, nonce string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, nonce)
	_, ok := m.links[nonce]
	return ok
}

func (m *MockIssuedLinkRepo) Save(_ context.Context, link *model.IssuedLink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link.Nonce] = *link
}

func (m *MockIssuedLinkRepo) DeleteExpired(_ context.Context, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, l := range m.links {
		if l.IsExpired(now) {
			delete(m.links, k)
			n++
		}
	}
	return n
}

func (m *MockIssuedLinkRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links)
}

func (m *MockIssuedLinkRepo) Lookups() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lookups...)
}

// --- Mock SettingsRepository

type MockSettingsRepo struct {
	mu    sync.Mutex
	saved []model.ChannelRegistration

	LoadFunc func(ctx context.Context) (model.ChannelRegistration, error)
	SaveErr  error
}

func (m *MockSettingsRepo) Load(ctx context.Context) (model.ChannelRegistration, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return model.ChannelRegistration{}, nil
}

func (m *MockSettingsRepo) Save(_ context.Context, reg model.ChannelRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, reg)
	return m.SaveErr
}

func (m *MockSettingsRepo) Saved() []model.ChannelRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ChannelRegistration(nil), m.saved...)
}
