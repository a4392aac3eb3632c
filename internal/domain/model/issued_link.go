package model

import "time"

const (
	InviteMemberLimit = 1
	DefaultInviteTTL  = 24 * time.Hour
)

// IssuedLink records an invite handed out to a verified user.
// Nonce is internal bookkeeping only and never leaves the process.
type IssuedLink struct {
	Nonce       string
	InviteURL   string
	MemberLimit int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func NewIssuedLink(nonce, inviteURL string, now time.Time, ttl time.Duration) *IssuedLink {
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	return &IssuedLink{
		Nonce:       nonce,
		InviteURL:   inviteURL,
		MemberLimit: InviteMemberLimit,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

func (l *IssuedLink) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
