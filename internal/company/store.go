package company

import (
	"context"
	"time"

	"openbadges/pkg/domain"
)

// Store is the persistence boundary for the company registry. Implementations
// return sentinel errors (sentinel.ErrNotFound, sentinel.ErrAlreadyUsed);
// the service translates them into domain errors.
type Store interface {
	// Create inserts a registration. A second registration for the same
	// identity fails with sentinel.ErrAlreadyUsed.
	Create(ctx context.Context, c *Company) error

	// Find loads a company by identity.
	Find(ctx context.Context, identity domain.Identity) (*Company, error)

	// List returns every company in submission order.
	List(ctx context.Context) ([]*Company, error)

	// Execute loads the company, runs fn against it, and persists the
	// mutation atomically. fn returning an error aborts the write.
	Execute(ctx context.Context, identity domain.Identity, fn func(c *Company) error) (*Company, error)

	// AppendIssuer records a badge class anchored to the company.
	AppendIssuer(ctx context.Context, identity domain.Identity, issuerID domain.IssuerID, now time.Time) error

	// ListIssuers returns the company's anchored issuers in creation order.
	ListIssuers(ctx context.Context, identity domain.Identity) ([]domain.IssuerID, error)
}
