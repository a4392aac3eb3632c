package repository

import (
	"context"
	"time"

	"telegram-captcha-gate/internal/domain/model"
)

// SessionStore keeps the open captcha session of each user.
// Implementations must be safe for concurrent use across users; read-modify-write
// sequences on a single user are serialized by the caller.
type SessionStore interface {
	// Begin creates or replaces the session for userID.
	Begin(ctx context.Context, userID int64, challenge string, attempts int, now time.Time) *model.CaptchaSession
	Get(ctx context.Context, userID int64) (*model.CaptchaSession, bool)
	Save(ctx context.Context, session *model.CaptchaSession)
	// Remove is a no-op when no session exists.
	Remove(ctx context.Context, userID int64)
	// DeleteExpired removes sessions created before cutoff and returns how many were dropped.
	DeleteExpired(ctx context.Context, cutoff time.Time) int
	Len() int
}
