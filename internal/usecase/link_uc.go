package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"telegram-captcha-gate/internal/domain"
	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/adapter"
	"telegram-captcha-gate/internal/domain/ports/repository"
	"telegram-captcha-gate/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ LinkUseCase = (*linkUC)(nil)

const (
	nonceLength   = 10
	nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	defaultInviteTimeout = 10 * time.Second

	// Shown to the user when the upstream call fails; missing rights is the usual cause.
	IssueFailureReason = "the bot may lack the permission to create invite links"
)

type LinkUseCase interface {
	// Issue creates a single-use invite for the registered channel.
	Issue(ctx context.Context, reg model.ChannelRegistration) (string, error)
	// PurgeExpired drops issued-link records past their expiry.
	PurgeExpired(ctx context.Context) int
}

type LinkConfig struct {
	TTL     time.Duration
	Timeout time.Duration
	Now     func() time.Time
	// Nonce overrides the random nonce source.
	Nonce func() (string, error)
}

type linkUC struct {
	links   repository.IssuedLinkRepository
	channel adapter.ChannelManager
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	nonce   func() (string, error)
	log     *zerolog.Logger
}

func NewLinkUseCase(links repository.IssuedLinkRepository, channel adapter.ChannelManager, cfg LinkConfig, logger *zerolog.Logger) *linkUC {
	if cfg.TTL <= 0 {
		cfg.TTL = model.DefaultInviteTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultInviteTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Nonce == nil {
		cfg.Nonce = randomNonce
	}
	l := logger.With().Str("component", "LinkUC").Logger()
	return &linkUC{
		links:   links,
		channel: channel,
		ttl:     cfg.TTL,
		timeout: cfg.Timeout,
		now:     cfg.Now,
		nonce:   cfg.Nonce,
		log:     &l,
	}
}

func (u *linkUC) Issue(ctx context.Context, reg model.ChannelRegistration) (string, error) {
	defer logging.TraceDuration(u.log, "LinkUC.Issue")()
	if !reg.Configured() {
		return "", domain.ErrChannelNotConfigured
	}

	nonce, err := u.freshNonce(ctx)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()
	url, err := u.channel.CreateSingleUseInvite(callCtx, reg.ID(), u.ttl)
	if err != nil {
		u.log.Warn().Err(err).Int64("channel_id", reg.ID()).Msg("invite link creation failed")
		return "", &domain.IssueError{Reason: IssueFailureReason, Err: err}
	}

	u.links.Save(ctx, model.NewIssuedLink(nonce, url, u.now(), u.ttl))
	u.log.Info().Int64("channel_id", reg.ID()).Msg("invite link issued")
	return url, nil
}

// freshNonce draws nonces until one is not already recorded.
func (u *linkUC) freshNonce(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := u.nonce()
		if err != nil {
			return "", err
		}
		if !u.links.HasNonce(ctx, n) {
			return n, nil
		}
	}
}

func (u *linkUC) PurgeExpired(ctx context.Context) int {
	return u.links.DeleteExpired(ctx, u.now())
}

func randomNonce() (string, error) {
	b := make([]byte, nonceLength)
	limit := big.NewInt(int64(len(nonceAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = nonceAlphabet[n.Int64()]
	}
	return string(b), nil
}
