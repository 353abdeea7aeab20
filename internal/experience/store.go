package experience

import (
	"context"

	"openbadges/pkg/domain"
)

// Store is the persistence boundary for experience claims. Implementations
// assign IDs on append and return sentinel errors for absent records.
type Store interface {
	// Append inserts a claim and returns its assigned ID.
	Append(ctx context.Context, e *Experience) (domain.ExperienceID, error)

	// Find loads a claim by ID.
	Find(ctx context.Context, id domain.ExperienceID) (*Experience, error)

	// List returns every claim in submission order.
	List(ctx context.Context) ([]*Experience, error)

	// ListByUser returns a claimant's claims in submission order.
	ListByUser(ctx context.Context, user domain.Identity) ([]*Experience, error)

	// Execute loads the claim, runs fn against it, and persists the
	// mutation atomically. fn returning an error aborts the write.
	Execute(ctx context.Context, id domain.ExperienceID, fn func(e *Experience) error) (*Experience, error)
}
