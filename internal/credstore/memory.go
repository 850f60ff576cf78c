package credstore

import (
	"context"
	"sync"
)

// MemoryStore holds the credential pair in memory. Useful for tests and for
// throwaway sessions that should not touch disk.
type MemoryStore struct {
	mu     sync.Mutex
	oauth1 *OAuth1Token
	oauth2 *OAuth2Token
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (*OAuth1Token, *OAuth2Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.oauth1 == nil || s.oauth2 == nil {
		return nil, nil, ErrNotFound
	}

	o1 := *s.oauth1
	o2 := *s.oauth2
	return &o1, &o2, nil
}

func (s *MemoryStore) Save(_ context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oauth1 != nil {
		o1 := *oauth1
		s.oauth1 = &o1
	}
	if oauth2 != nil {
		o2 := *oauth2
		s.oauth2 = &o2
	}
	return nil
}
