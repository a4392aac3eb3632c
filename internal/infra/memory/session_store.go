package memory

import (
	"context"
	"sync"
	"time"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore keeps captcha sessions in process memory.
// Sessions are lost on restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]model.CaptchaSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]model.CaptchaSession)}
}

func (s *SessionStore) Begin(_ context.Context, userID int64, challenge string, attempts int, now time.Time) *model.CaptchaSession {
	sess := model.NewCaptchaSession(userID, challenge, attempts, now)
	s.mu.Lock()
	s.sessions[userID] = *sess
	s.mu.Unlock()
	return sess
}

// Get returns a copy; mutations must be written back with Save.
func (s *SessionStore) Get(_ context.Context, userID int64) (*model.CaptchaSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return &sess, true
}

func (s *SessionStore) Save(_ context.Context, session *model.CaptchaSession) {
	if session == nil {
		return
	}
	s.mu.Lock()
	s.sessions[session.UserID] = *session
	s.mu.Unlock()
}

func (s *SessionStore) Remove(_ context.Context, userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

func (s *SessionStore) DeleteExpired(_ context.Context, cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
