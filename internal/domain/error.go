package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrChannelNotConfigured = errors.New("channel is not configured")
	ErrUpstreamIssuance     = errors.New("invite link issuance failed")
	ErrSessionExpired       = errors.New("captcha session expired")
	ErrSessionExhausted     = errors.New("captcha attempts exhausted")
	ErrSettingsIO           = errors.New("settings storage failure")
)

// IssueError carries the upstream reason an invite link could not be created.
// It unwraps to ErrUpstreamIssuance.
type IssueError struct {
	Reason string
	Err    error
}

func (e *IssueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrUpstreamIssuance, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrUpstreamIssuance, e.Reason)
}

func (e *IssueError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstreamIssuance, e.Err}
	}
	return []error{ErrUpstreamIssuance}
}
