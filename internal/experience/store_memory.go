package experience

import (
	"context"
	"sync"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// InMemoryStore keeps claims in process memory. IDs are the append index,
// starting at zero.
type InMemoryStore struct {
	mu          sync.RWMutex
	experiences []*Experience
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func cloneExperience(e *Experience) *Experience {
	out := *e
	if e.IssuerID != nil {
		issuerID := *e.IssuerID
		out.IssuerID = &issuerID
	}
	return &out
}

func (s *InMemoryStore) Append(_ context.Context, e *Experience) (domain.ExperienceID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ExperienceID(len(s.experiences))
	stored := cloneExperience(e)
	stored.ID = id
	s.experiences = append(s.experiences, stored)
	return id, nil
}

func (s *InMemoryStore) Find(_ context.Context, id domain.ExperienceID) (*Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, err := s.locate(id)
	if err != nil {
		return nil, err
	}
	return cloneExperience(e), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Experience, 0, len(s.experiences))
	for _, e := range s.experiences {
		out = append(out, cloneExperience(e))
	}
	return out, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, user domain.Identity) ([]*Experience, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Experience
	for _, e := range s.experiences {
		if e.UserID == user {
			out = append(out, cloneExperience(e))
		}
	}
	return out, nil
}

func (s *InMemoryStore) Execute(_ context.Context, id domain.ExperienceID, fn func(e *Experience) error) (*Experience, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, err := s.locate(id)
	if err != nil {
		return nil, err
	}
	working := cloneExperience(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	s.experiences[int(id)] = working
	return cloneExperience(working), nil
}

func (s *InMemoryStore) locate(id domain.ExperienceID) (*Experience, error) {
	if id < 0 || int(id) >= len(s.experiences) {
		return nil, sentinel.ErrNotFound
	}
	return s.experiences[int(id)], nil
}
