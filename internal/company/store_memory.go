package company

import (
	"context"
	"sync"
	"time"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// InMemoryStore keeps the registry in process memory. Suitable for tests and
// single-node development runs.
type InMemoryStore struct {
	mu        sync.RWMutex
	companies map[domain.Identity]*Company
	order     []domain.Identity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{companies: make(map[domain.Identity]*Company)}
}

func cloneCompany(c *Company) *Company {
	out := *c
	out.Issuers = append([]domain.IssuerID(nil), c.Issuers...)
	return &out
}

func (s *InMemoryStore) Create(_ context.Context, c *Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.Identity]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.companies[c.Identity] = cloneCompany(c)
	s.order = append(s.order, c.Identity)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, identity domain.Identity) (*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneCompany(c), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Company, 0, len(s.order))
	for _, identity := range s.order {
		out = append(out, cloneCompany(s.companies[identity]))
	}
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, identity domain.Identity, fn func(c *Company) error) (*Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.companies[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := cloneCompany(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.companies[identity] = working
	return cloneCompany(working), nil
}

func (s *InMemoryStore) AppendIssuer(_ context.Context, identity domain.Identity, issuerID domain.IssuerID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[identity]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Issuers = append(c.Issuers, issuerID)
	return nil
}

func (s *InMemoryStore) ListIssuers(_ context.Context, identity domain.Identity) ([]domain.IssuerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]domain.IssuerID(nil), c.Issuers...), nil
}
