package badge

import (
	"context"
	"sync"
	"time"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// InMemoryStore keeps issuers and their ledgers behind one lock so minting is
// an atomic allocate-and-append.
type InMemoryStore struct {
	mu      sync.RWMutex
	issuers map[domain.IssuerID]*issuerState
}

type issuerState struct {
	issuer Issuer
	tokens []Token
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{issuers: make(map[domain.IssuerID]*issuerState)}
}

func (s *InMemoryStore) Create(_ context.Context, issuer *Issuer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.issuers[issuer.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	copied := *issuer
	s.issuers[issuer.ID] = &issuerState{issuer: copied}
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, id domain.IssuerID) (*Issuer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.issuers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := state.issuer
	return &copied, nil
}

func (s *InMemoryStore) Mint(_ context.Context, id domain.IssuerID, owner domain.Identity, uri string, now time.Time) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.issuers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	token := Token{
		IssuerID: id,
		TokenID:  domain.TokenID(len(state.tokens)),
		Owner:    owner,
		URI:      uri,
		IssuedAt: now,
	}
	state.tokens = append(state.tokens, token)
	return &token, nil
}

func (s *InMemoryStore) Token(_ context.Context, id domain.IssuerID, tokenID domain.TokenID) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.issuers[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if tokenID < 0 || int64(tokenID) >= int64(len(state.tokens)) {
		return nil, sentinel.ErrNotFound
	}
	token := state.tokens[tokenID]
	return &token, nil
}

func (s *InMemoryStore) Balance(_ context.Context, id domain.IssuerID, holder domain.Identity) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.issuers[id]
	if !ok {
		return 0, sentinel.ErrNotFound
	}
	var balance int64
	for _, token := range state.tokens {
		if token.Owner == holder {
			balance++
		}
	}
	return balance, nil
}
