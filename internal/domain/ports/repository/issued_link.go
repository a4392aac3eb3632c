package repository

import (
	"context"
	"time"

	"telegram-captcha-gate/internal/domain/model"
)

// IssuedLinkRepository is the nonce -> invite link registry.
type IssuedLinkRepository interface {
	HasNonce(ctx context.Context, nonce string) bool
	Save(ctx context.Context, link *model.IssuedLink)
	// DeleteExpired drops links whose expiry is not after now.
	DeleteExpired(ctx context.Context, now time.Time) int
	Len() int
}
