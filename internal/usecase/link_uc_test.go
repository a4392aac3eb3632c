//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/usecase"
)

func TestLinkUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	channel := model.NewChannelRegistration(-100123)

	t.Run("should fail without a channel and draw no nonce", func(t *testing.T) {
		links := NewMockIssuedLinkRepo()
		mgr := &MockChannelManager{}
		drawn := 0
		uc := usecase.NewLinkUseCase(links, mgr, usecase.LinkConfig{
			Nonce: func() (string, error) { drawn++; return "aaaaaaaaaa", nil },
		}, newTestLogger())

		_, err := uc.Issue(ctx, model.ChannelRegistration{})
		if !errors.Is(err, domain.ErrChannelNotConfigured) {
			t.Fatalf("expected ErrChannelNotConfigured, got %v", err)
		}
		if drawn != 0 || len(links.Lookups()) != 0 || links.Len() != 0 {
			t.Errorf("no nonce bookkeeping expected: drawn=%d lookups=%d links=%d", drawn, len(links.Lookups()), links.Len())
		}
		if len(mgr.Calls()) != 0 {
			t.Error("channel manager must not be called")
		}
	})

	t.Run("should request a single-use invite with ttl and deadline", func(t *testing.T) {
		clock := newFakeClock(t0)
		links := NewMockIssuedLinkRepo()
		mgr := &MockChannelManager{
			CreateFunc: func(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
				return "https://t.me/+abc", nil
			},
		}
		uc := usecase.NewLinkUseCase(links, mgr, usecase.LinkConfig{Now: clock.Now}, newTestLogger())

		url, err := uc.Issue(ctx, channel)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if url != "https://t.me/+abc" {
			t.Errorf("unexpected url %q", url)
		}
		calls := mgr.Calls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if calls[0].ChannelID != -100123 || calls[0].TTL != 24*time.Hour || !calls[0].HasDeadline {
			t.Errorf("unexpected call %+v", calls[0])
		}
		if links.Len() != 1 {
			t.Errorf("expected link recorded, got %d", links.Len())
		}
		lookups := links.Lookups()
		if len(lookups) != 1 || !regexp.MustCompile(`^[A-Za-z0-9]{10}$`).MatchString(lookups[0]) {
			t.Errorf("unexpected nonce lookups %v", lookups)
		}
	})

	t.Run("should redraw nonces that are already used", func(t *testing.T) {
		links := NewMockIssuedLinkRepo()
		links.Save(ctx, model.NewIssuedLink("dupdupdup1", "https://t.me/+old", t0, time.Hour))
		seq := []string{"dupdupdup1", "dupdupdup1", "fresh00001"}
		i := 0
		uc := usecase.NewLinkUseCase(links, &MockChannelManager{}, usecase.LinkConfig{
			Nonce: func() (string, error) { n := seq[i]; i++; return n, nil },
		}, newTestLogger())

		if _, err := uc.Issue(ctx, channel); err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if i != 3 {
			t.Errorf("expected 3 draws, got %d", i)
		}
		if !links.HasNonce(ctx, "fresh00001") {
			t.Error("fresh nonce should be recorded")
		}
	})

	t.Run("should wrap upstream failures", func(t *testing.T) {
		links := NewMockIssuedLinkRepo()
		upstream := errors.New("Bad Request: not enough rights")
		mgr := &MockChannelManager{
			CreateFunc: func(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
				return "", upstream
			},
		}
		uc := usecase.NewLinkUseCase(links, mgr, usecase.LinkConfig{}, newTestLogger())

		_, err := uc.Issue(ctx, channel)
		if !errors.Is(err, domain.ErrUpstreamIssuance) || !errors.Is(err, upstream) {
			t.Fatalf("expected wrapped upstream error, got %v", err)
		}
		var ie *domain.IssueError
		if !errors.As(err, &ie) || ie.Reason == "" {
			t.Errorf("expected IssueError with reason, got %#v", err)
		}
		if links.Len() != 0 {
			t.Error("failed issuance must not be recorded")
		}
	})

	t.Run("should bound a stalled upstream call", func(t *testing.T) {
		mgr := &MockChannelManager{
			CreateFunc: func(ctx context.Context, channelID int64, ttl time.Duration) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		uc := usecase.NewLinkUseCase(NewMockIssuedLinkRepo(), mgr, usecase.LinkConfig{Timeout: 20 * time.Millisecond}, newTestLogger())

		start := time.Now()
		_, err := uc.Issue(ctx, channel)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if time.Since(start) > 2*time.Second {
			t.Error("timeout was not applied")
		}
	})

	t.Run("should surface nonce source errors", func(t *testing.T) {
		uc := usecase.NewLinkUseCase(NewMockIssuedLinkRepo(), &MockChannelManager{}, usecase.LinkConfig{
			Nonce: func() (string, error) { return "", fmt.Errorf("entropy unavailable") },
		}, newTestLogger())
		if _, err := uc.Issue(ctx, channel); err == nil {
			t.Fatal("expected error from nonce source")
		}
	})
}

func TestLinkUseCase_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(t0)
	links := NewMockIssuedLinkRepo()
	uc := usecase.NewLinkUseCase(links, &MockChannelManager{}, usecase.LinkConfig{Now: clock.Now}, newTestLogger())

	if _, err := uc.Issue(ctx, model.NewChannelRegistration(1)); err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	clock.Advance(23 * time.Hour)
	if n := uc.PurgeExpired(ctx); n != 0 {
		t.Fatalf("nothing should expire yet, purged %d", n)
	}
	clock.Advance(time.Hour)
	if n := uc.PurgeExpired(ctx); n != 1 {
		t.Fatalf("expected 1 purged link, got %d", n)
	}
}
