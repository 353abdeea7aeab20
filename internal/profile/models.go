// Package profile implements the profile registry: one record per caller
// identity, individual or organisation-like, accumulating received
// credentials and organisation members.
package profile

import (
	"strings"
	"time"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

// organisationKinds are the distinguished kind values marking a profile as
// organisation-like. Any other kind is an individual profile.
var organisationKinds = map[string]bool{
	"company":      true,
	"university":   true,
	"organisation": true,
}

// IsOrganisationKind reports whether a kind tag marks an organisation-like
// profile. The comparison is case-insensitive; the tag itself stays free-form.
func IsOrganisationKind(kind string) bool {
	return organisationKinds[strings.ToLower(strings.TrimSpace(kind))]
}

// Profile is one registry record. Kind is immutable after creation; the
// record mutates only by appending to CredentialsReceived, BadgesCreated, or
// Members.
type Profile struct {
	Identity domain.Identity `json:"identity"`
	URI      string          `json:"uri"`
	Kind     string          `json:"kind"`

	// Organisation is derived from Kind at creation and backs the
	// all-organisations view.
	Organisation bool `json:"organisation"`

	// CredentialsReceived lists the issuers this identity holds a token
	// from, in the order they were attributed.
	CredentialsReceived []domain.IssuerID `json:"credentials_received"`

	// BadgesCreated lists the issuers this organisation provisioned via
	// the direct (single-registry) path.
	BadgesCreated []domain.IssuerID `json:"badges_created,omitempty"`

	// Members holds the identities an organisation has admitted.
	Members []domain.Identity `json:"members,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// IsOrganisation reports whether the profile may call organisation-restricted
// operations.
func (p *Profile) IsOrganisation() bool { return p.Organisation }

// NewProfile constructs a profile, deriving the organisation flag from kind.
func NewProfile(identity domain.Identity, uri, kind string, now time.Time) (*Profile, error) {
	if identity.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile identity is required")
	}
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile kind cannot be empty")
	}
	return &Profile{
		Identity:     identity,
		URI:          uri,
		Kind:         kind,
		Organisation: IsOrganisationKind(kind),
		CreatedAt:    now,
	}, nil
}
