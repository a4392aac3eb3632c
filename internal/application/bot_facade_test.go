package application_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"telegram-captcha-gate/internal/application"
	"telegram-captcha-gate/internal/infra/memory"
	"telegram-captcha-gate/internal/infra/settings"
	"telegram-captcha-gate/internal/usecase"

	"github.com/rs/zerolog"
)

// fixed renderer returning a known challenge
type stubRenderer struct {
	text string
	err  error
}

func (s *stubRenderer) Render() (string, []byte, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.text, []byte("\x89PNG"), nil
}

type stubChannelManager struct {
	url string
	err error
}

func (s *stubChannelManager) CreateSingleUseInvite(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
	return s.url, s.err
}

type fixture struct {
	facade  *application.BotFacade
	channel usecase.ChannelUseCase
	mgr     *stubChannelManager
	render  *stubRenderer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	verification := usecase.NewVerificationUseCase(memory.NewSessionStore(), usecase.VerificationConfig{}, &logger)
	mgr := &stubChannelManager{url: "https://t.me/+single"}
	links := usecase.NewLinkUseCase(memory.NewIssuedLinkStore(), mgr, usecase.LinkConfig{}, &logger)
	channel := usecase.NewChannelUseCase(settings.NewFileStore(filepath.Join(t.TempDir(), "bot_settings.json")), &logger)
	channel.Load(context.Background())
	render := &stubRenderer{text: "AB3XQ9"}
	return &fixture{
		facade:  application.NewBotFacade(verification, links, channel, render, false, &logger),
		channel: channel,
		mgr:     mgr,
		render:  render,
	}
}

func TestBotFacade_NotConfigured(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	start := f.facade.HandleStart(ctx, 42)
	if !strings.Contains(start.Text, "administrator") || len(start.Buttons) != 0 {
		t.Errorf("expected not-configured start reply, got %+v", start)
	}
	req := f.facade.HandleRequestLink(ctx, 42)
	if req.Image != nil || !strings.Contains(req.Text, "not set up") {
		t.Errorf("expected not-set-up reply, got %+v", req)
	}
	if got := f.facade.HandleAnswer(ctx, 42, "AB3XQ9"); !got.Empty() {
		t.Errorf("no session means silence, got %+v", got)
	}
}

func TestBotFacade_HappyPath(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	confirm := f.facade.HandleAdminGranted(ctx, -100123, "channel")
	if confirm.Text == "" {
		t.Fatal("expected confirmation for the channel")
	}

	start := f.facade.HandleStart(ctx, 42)
	if len(start.Buttons) != 1 || start.Buttons[0][0].Data != application.CallbackRequestLink {
		t.Fatalf("expected request button, got %+v", start.Buttons)
	}

	challenge := f.facade.HandleRequestLink(ctx, 42)
	if len(challenge.Image) == 0 || challenge.Text == "" {
		t.Fatalf("expected photo with caption, got %+v", challenge)
	}

	reply := f.facade.HandleAnswer(ctx, 42, "ab3xq9")
	if !strings.Contains(reply.Text, "https://t.me/+single") {
		t.Fatalf("expected invite link, got %q", reply.Text)
	}
	if again := f.facade.HandleAnswer(ctx, 42, "ab3xq9"); !again.Empty() {
		t.Errorf("consumed session must stay silent, got %q", again.Text)
	}
}

func TestBotFacade_WrongAnswers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.facade.HandleAdminGranted(ctx, -100123, "supergroup")
	f.render.text = "K9P2ZZ"
	f.facade.HandleRequestLink(ctx, 7)

	want := []string{"Attempts left: 2", "Attempts left: 1", "used all attempts"}
	for i, w := range want {
		got := f.facade.HandleAnswer(ctx, 7, "wrong")
		if !strings.Contains(got.Text, w) {
			t.Fatalf("attempt %d: expected %q in %q", i+1, w, got.Text)
		}
	}
}

func TestBotFacade_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.facade.HandleAdminGranted(ctx, -100123, "channel")
	f.mgr.err = errors.New("Bad Request: not enough rights to manage chat invite link")

	f.facade.HandleRequestLink(ctx, 42)
	got := f.facade.HandleAnswer(ctx, 42, "AB3XQ9")
	if !strings.Contains(got.Text, "permission") {
		t.Fatalf("expected permission hint, got %q", got.Text)
	}
}

func TestBotFacade_RenderFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.facade.HandleAdminGranted(ctx, -100123, "channel")
	f.render.err = errors.New("no entropy")

	got := f.facade.HandleRequestLink(ctx, 42)
	if got.Image != nil || got.Text == "" {
		t.Fatalf("expected plain error text, got %+v", got)
	}
	if f.facade.VerificationUC.ActiveSessions() != 0 {
		t.Error("no session should be opened when rendering fails")
	}
}

func TestBotFacade_AdminGrantedIgnoresGroups(t *testing.T) {
	f := newFixture(t)
	if got := f.facade.HandleAdminGranted(context.Background(), 555, "group"); !got.Empty() {
		t.Fatalf("plain group should not be confirmed, got %+v", got)
	}
	if f.channel.Current().Configured() {
		t.Error("plain group must not be registered")
	}
}
