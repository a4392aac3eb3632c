package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"
	"telegram-captcha-gate/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ VerificationUseCase = (*verificationUC)(nil)

type OutcomeKind int

const (
	OutcomeNoSession OutcomeKind = iota
	OutcomeExpired
	OutcomeCorrect
	OutcomeIncorrect
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoSession:
		return "no_session"
	case OutcomeExpired:
		return "expired"
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the verdict on one submitted answer. Remaining is only set for OutcomeIncorrect.
type Outcome struct {
	Kind      OutcomeKind
	Remaining int
}

func (o Outcome) String() string {
	if o.Kind == OutcomeIncorrect {
		return fmt.Sprintf("incorrect(%d)", o.Remaining)
	}
	return o.Kind.String()
}

type VerificationUseCase interface {
	// Begin opens (or silently replaces) the captcha session of a user.
	Begin(ctx context.Context, userID int64, challenge string) *model.CaptchaSession
	// Submit judges an answer and advances the session state machine.
	Submit(ctx context.Context, userID int64, text string) Outcome
	// SweepExpired drops sessions older than the TTL.
	SweepExpired(ctx context.Context) int
	ActiveSessions() int
}

type VerificationConfig struct {
	Attempts int
	TTL      time.Duration
	Now      func() time.Time
}

type verificationUC struct {
	sessions repository.SessionStore
	locks    *userLocks
	attempts int
	ttl      time.Duration
	now      func() time.Time
	log      *zerolog.Logger
}

func NewVerificationUseCase(sessions repository.SessionStore, cfg VerificationConfig, logger *zerolog.Logger) *verificationUC {
	if cfg.Attempts <= 0 {
		cfg.Attempts = model.DefaultCaptchaAttempts
	}
	if cfg.TTL <= 0 {
		cfg.TTL = model.DefaultCaptchaTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := logger.With().Str("component", "VerificationUC").Logger()
	return &verificationUC{
		sessions: sessions,
		locks:    newUserLocks(),
		attempts: cfg.Attempts,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		log:      &l,
	}
}

func (v *verificationUC) Begin(ctx context.Context, userID int64, challenge string) *model.CaptchaSession {
	defer logging.TraceDuration(v.log, "VerificationUC.Begin")()
	unlock := v.locks.Lock(userID)
	defer unlock()

	sess := v.sessions.Begin(ctx, userID, challenge, v.attempts, v.now())
	v.log.Debug().Int64("tg_id", userID).Msg("captcha session opened")
	return sess
}

func (v *verificationUC) Submit(ctx context.Context, userID int64, text string) Outcome {
	defer logging.TraceDuration(v.log, "VerificationUC.Submit")()
	unlock := v.locks.Lock(userID)
	defer unlock()

	sess, ok := v.sessions.Get(ctx, userID)
	if !ok {
		return Outcome{Kind: OutcomeNoSession}
	}

	if sess.ExpiredAt(v.now(), v.ttl) {
		v.sessions.Remove(ctx, userID)
		return Outcome{Kind: OutcomeExpired}
	}

	if sess.Matches(text) {
		v.sessions.Remove(ctx, userID)
		return Outcome{Kind: OutcomeCorrect}
	}

	left := sess.ConsumeAttempt()
	if left > 0 {
		v.sessions.Save(ctx, sess)
		return Outcome{Kind: OutcomeIncorrect, Remaining: left}
	}
	v.sessions.Remove(ctx, userID)
	return Outcome{Kind: OutcomeExhausted}
}

func (v *verificationUC) SweepExpired(ctx context.Context) int {
	return v.sessions.DeleteExpired(ctx, v.now().Add(-v.ttl))
}

func (v *verificationUC) ActiveSessions() int {
	return v.sessions.Len()
}
