// Package experience implements the claim workflow that connects the
// registries: a user submits a work claim against a company, the company
// validates it, and a validated claim can be exchanged for a credential from
// a badge class anchored to that company.
package experience

import (
	"strings"
	"time"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

// Experience is one claim record. Validated flips false -> true exactly once;
// IssuerID is set when the claim is exchanged for a credential.
type Experience struct {
	ID       domain.ExperienceID `json:"id"`
	Title    string              `json:"title"`
	Level    int                 `json:"level"`
	Category int                 `json:"category"`

	// CompanyID is the company the claim is asserted against. Only this
	// identity may validate the claim.
	CompanyID domain.Identity `json:"company"`

	// UserID is the claimant; credentials minted from this claim go to
	// this identity.
	UserID domain.Identity `json:"user"`

	Validated bool `json:"validated"`

	// IssuerID links the claim to the badge class provisioned for it,
	// once the validated claim is exchanged.
	IssuerID *domain.IssuerID `json:"issuer_id,omitempty"`

	// TokenURI is the evidence document attached at exchange time.
	TokenURI string `json:"token_uri,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// NewExperience constructs an unvalidated claim. The ID is assigned by the
// store on append.
func NewExperience(title string, level, category int, companyID, userID domain.Identity, now time.Time) (*Experience, error) {
	if strings.TrimSpace(title) == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "experience title cannot be empty")
	}
	if level < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "experience level cannot be negative")
	}
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "experience user is required")
	}
	return &Experience{
		Title:       strings.TrimSpace(title),
		Level:       level,
		Category:    category,
		CompanyID:   companyID,
		UserID:      userID,
		SubmittedAt: now,
	}, nil
}
