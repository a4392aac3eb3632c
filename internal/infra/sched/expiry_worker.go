package sched

import (
	"context"
	"time"

	"telegram-captcha-gate/internal/infra/metrics"
	"telegram-captcha-gate/internal/usecase"

	"github.com/rs/zerolog"
)

// ExpiryWorker periodically reaps abandoned captcha sessions and expired invite records.
type ExpiryWorker struct {
	interval     time.Duration
	verification usecase.VerificationUseCase
	links        usecase.LinkUseCase
	log          *zerolog.Logger
}

func NewExpiryWorker(interval time.Duration, verification usecase.VerificationUseCase, links usecase.LinkUseCase, logger *zerolog.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	return &ExpiryWorker{
		interval:     interval,
		verification: verification,
		links:        links,
		log:          &exprLog,
	}
}

func (w *ExpiryWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting expiry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			w.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single reaping pass and returns the removed session and link counts.
func (w *ExpiryWorker) SweepOnce(ctx context.Context) (sessions, links int) {
	sessions = w.verification.SweepExpired(ctx)
	links = w.links.PurgeExpired(ctx)
	if sessions > 0 {
		metrics.AddSwept("session", sessions)
	}
	if links > 0 {
		metrics.AddSwept("invite_link", links)
	}
	metrics.SetActiveSessions(w.verification.ActiveSessions())
	if sessions > 0 || links > 0 {
		w.log.Info().Int("sessions", sessions).Int("invite_links", links).Msg("expired records swept")
	}
	return sessions, links
}
