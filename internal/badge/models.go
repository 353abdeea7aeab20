// Package badge implements the credential issuers: one token ledger per badge
// class, provisioned on demand by the factory and owned by the company that
// created it.
package badge

import (
	"strings"
	"time"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

// Class is the fixed badge-class definition an issuer represents.
type Class struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	Category    int    `json:"category"`
	Level       int    `json:"level"`
}

// Validate enforces the class invariants at creation time. The URI is opaque
// and never dereferenced here.
func (c Class) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "badge class title cannot be empty")
	}
	if c.Level < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "badge class level cannot be negative")
	}
	return nil
}

// Issuer is one credential issuer instance. The class definition is fixed at
// creation; only the token ledger grows.
type Issuer struct {
	ID        domain.IssuerID `json:"id"`
	Owner     domain.Identity `json:"owner"`
	Class     Class           `json:"class"`
	CreatedAt time.Time       `json:"created_at"`
}

// Token is one issued credential: a ledger entry mapping a monotonically
// increasing token id to its holder and metadata URI.
type Token struct {
	IssuerID domain.IssuerID `json:"issuer_id"`
	TokenID  domain.TokenID  `json:"token_id"`
	Owner    domain.Identity `json:"owner"`
	URI      string          `json:"uri"`
	IssuedAt time.Time       `json:"issued_at"`
}

// NewIssuer constructs an issuer after validating its class.
func NewIssuer(id domain.IssuerID, owner domain.Identity, class Class, now time.Time) (*Issuer, error) {
	if owner.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "issuer owner is required")
	}
	if err := class.Validate(); err != nil {
		return nil, err
	}
	return &Issuer{ID: id, Owner: owner, Class: class, CreatedAt: now}, nil
}
