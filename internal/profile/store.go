package profile

import (
	"context"
	"time"

	"openbadges/pkg/domain"
)

// Store is the identity-keyed profile store. Scan ordering is insertion
// order. Implementations return pkg/platform/sentinel errors.
type Store interface {
	// Create inserts a profile. Fails with sentinel.ErrAlreadyUsed if the
	// identity already has one.
	Create(ctx context.Context, profile *Profile) error
	Find(ctx context.Context, identity domain.Identity) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	// ListOrganisations is the derived all-organisations view.
	ListOrganisations(ctx context.Context) ([]*Profile, error)

	// AddMember appends to an organisation's member set. Fails with
	// sentinel.ErrAlreadyUsed when the member is already admitted.
	AddMember(ctx context.Context, organisation, member domain.Identity, now time.Time) error
	ListMembers(ctx context.Context, organisation domain.Identity) ([]domain.Identity, error)

	// AppendCredential records a received credential on the holder.
	AppendCredential(ctx context.Context, holder domain.Identity, issuerID domain.IssuerID, now time.Time) error
	// AppendBadgeCreated records an issuer provisioned via the direct path.
	AppendBadgeCreated(ctx context.Context, creator domain.Identity, issuerID domain.IssuerID, now time.Time) error
}
