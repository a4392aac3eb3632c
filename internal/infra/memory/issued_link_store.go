package memory

import (
	"context"
	"sync"
	"time"

	"telegram-captcha-gate/internal/domain/model"
	"telegram-captcha-gate/internal/domain/ports/repository"
)

var _ repository.IssuedLinkRepository = (*IssuedLinkStore)(nil)

// IssuedLinkStore is an append-only nonce registry, pruned only by DeleteExpired.
type IssuedLinkStore struct {
	mu    sync.RWMutex
	links map[string]model.IssuedLink
}

func NewIssuedLinkStore() *IssuedLinkStore {
	return &IssuedLinkStore{links: make(map[string]model.IssuedLink)}
}

func (s *IssuedLinkStore) HasNonce(_ context.Context, nonce string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.links[nonce]
	return ok
}

func (s *IssuedLinkStore) Save(_ context.Context, link *model.IssuedLink) {
	if link == nil {
		return
	}
	s.mu.Lock()
	s.links[link.Nonce] = *link
	s.mu.Unlock()
}

func (s *IssuedLinkStore) DeleteExpired(_ context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for nonce, l := range s.links {
		if l.IsExpired(now) {
			delete(s.links, nonce)
			n++
		}
	}
	return n
}

func (s *IssuedLinkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.links)
}
