package model

import (
	"strings"
	"time"
)

const (
	DefaultCaptchaAttempts = 3
	DefaultCaptchaTTL      = 5 * time.Minute
)

// CaptchaSession is the open challenge of one user waiting for an answer.
type CaptchaSession struct {
	UserID            int64     `json:"user_id"`
	Challenge         string    `json:"challenge"`
	RemainingAttempts int       `json:"remaining_attempts"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewCaptchaSession(userID int64, challenge string, attempts int, now time.Time) *CaptchaSession {
	if attempts <= 0 {
		attempts = DefaultCaptchaAttempts
	}
	return &CaptchaSession{
		UserID:            userID,
		Challenge:         challenge,
		RemainingAttempts: attempts,
		CreatedAt:         now,
	}
}

// ExpiredAt reports whether more than ttl has elapsed since the session began.
// A session exactly ttl old is still valid.
func (s *CaptchaSession) ExpiredAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}

// Matches compares an answer against the challenge ignoring case and surrounding whitespace.
func (s *CaptchaSession) Matches(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), s.Challenge)
}

// ConsumeAttempt decrements the remaining attempts and returns what is left.
func (s *CaptchaSession) ConsumeAttempt() int {
	if s.RemainingAttempts > 0 {
		s.RemainingAttempts--
	}
	return s.RemainingAttempts
}
