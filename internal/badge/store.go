package badge

import (
	"context"
	"time"

	"openbadges/pkg/domain"
)

// Store is the issuer arena: issuer-id to issuer record plus each issuer's
// token ledger. Implementations return pkg/platform/sentinel errors.
type Store interface {
	// Create registers a new issuer. Fails with sentinel.ErrAlreadyUsed if
	// the id is taken.
	Create(ctx context.Context, issuer *Issuer) error
	Find(ctx context.Context, id domain.IssuerID) (*Issuer, error)

	// Mint allocates the next token id for the issuer and appends the
	// ledger entry. Token ids start at zero, increase monotonically, and
	// are never reused.
	Mint(ctx context.Context, id domain.IssuerID, owner domain.Identity, uri string, now time.Time) (*Token, error)
	Token(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (*Token, error)
	Balance(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, error)
}
