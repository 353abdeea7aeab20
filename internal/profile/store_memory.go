package profile

import (
	"context"
	"sync"
	"time"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles in a map plus an insertion-order slice so
// full-registry scans stay deterministic.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[domain.Identity]*Profile
	order    []domain.Identity
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[domain.Identity]*Profile)}
}

func (s *InMemoryStore) Create(_ context.Context, profile *Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.Identity]; ok {
		return sentinel.ErrAlreadyUsed
	}
	copied := cloneProfile(profile)
	s.profiles[profile.Identity] = copied
	s.order = append(s.order, profile.Identity)
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, identity domain.Identity) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.profiles[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneProfile(stored), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Profile, 0, len(s.order))
	for _, identity := range s.order {
		out = append(out, cloneProfile(s.profiles[identity]))
	}
	return out, nil
}

func (s *InMemoryStore) ListIdentities(_ context.Context) ([]domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Identity{}, s.order...), nil
}

func (s *InMemoryStore) ListOrganisations(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Profile
	for _, identity := range s.order {
		if s.profiles[identity].Organisation {
			out = append(out, cloneProfile(s.profiles[identity]))
		}
	}
	return out, nil
}

func (s *InMemoryStore) AddMember(_ context.Context, organisation, member domain.Identity, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.profiles[organisation]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range stored.Members {
		if existing == member {
			return sentinel.ErrAlreadyUsed
		}
	}
	stored.Members = append(stored.Members, member)
	return nil
}

func (s *InMemoryStore) ListMembers(_ context.Context, organisation domain.Identity) ([]domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.profiles[organisation]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]domain.Identity{}, stored.Members...), nil
}

func (s *InMemoryStore) AppendCredential(_ context.Context, holder domain.Identity, issuerID domain.IssuerID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.profiles[holder]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.CredentialsReceived = append(stored.CredentialsReceived, issuerID)
	return nil
}

func (s *InMemoryStore) AppendBadgeCreated(_ context.Context, creator domain.Identity, issuerID domain.IssuerID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.profiles[creator]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.BadgesCreated = append(stored.BadgesCreated, issuerID)
	return nil
}

func cloneProfile(p *Profile) *Profile {
	copied := *p
	copied.CredentialsReceived = append([]domain.IssuerID{}, p.CredentialsReceived...)
	copied.BadgesCreated = append([]domain.IssuerID{}, p.BadgesCreated...)
	copied.Members = append([]domain.Identity{}, p.Members...)
	return &copied
}
