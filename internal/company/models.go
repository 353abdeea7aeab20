// Package company implements the company registry: organisations submit a
// registration, the registry admin verifies it, and verified companies may
// anchor credential issuers.
package company

import (
	"strings"
	"time"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

// Status is the verification state of a registered company.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
)

// Company is one registry record. Identity is the submitting caller; Status
// moves pending -> verified exactly once and never back.
type Company struct {
	Identity domain.Identity `json:"identity"`
	Name     string          `json:"name"`
	DidURI   string          `json:"did_uri"`
	Status   Status          `json:"status"`

	// Issuers lists the badge classes anchored to this company through
	// the experience workflow, in creation order.
	Issuers []domain.IssuerID `json:"issuers,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
}

// Verified reports whether the company passed admin review.
func (c *Company) Verified() bool { return c.Status == StatusVerified }

// ApplyVerification moves the company to verified. Verifying twice is a
// no-op so the operation stays idempotent for the admin.
func (c *Company) ApplyVerification() {
	c.Status = StatusVerified
}

// NewCompany constructs a pending registration.
func NewCompany(identity domain.Identity, name, didURI string, now time.Time) (*Company, error) {
	if identity.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company identity is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "company name cannot be empty")
	}
	return &Company{
		Identity:    identity,
		Name:        name,
		DidURI:      strings.TrimSpace(didURI),
		Status:      StatusPending,
		SubmittedAt: now,
	}, nil
}
