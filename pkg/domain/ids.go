// Package domain holds the typed identifiers shared across registries.
// Keeping them in one place gives the compiler a chance to catch
// cross-registry mixups (an issuer id is never an experience id).
package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	dErrors "openbadges/pkg/domain-errors"
)

// Identity is the opaque, globally unique caller identifier. Identities are
// ambient: no registry issues or revokes them, every record and authorization
// check keys off them.
type Identity string

func (i Identity) String() string { return string(i) }

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool { return i == "" }

// ParseIdentity validates an identity at a trust boundary. The value itself is
// opaque; only emptiness is rejected.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity must not be empty")
	}
	return Identity(s), nil
}

// IssuerID identifies a credential issuer (one per badge class).
type IssuerID uuid.UUID

func NewIssuerID() IssuerID { return IssuerID(uuid.New()) }

func (id IssuerID) String() string { return uuid.UUID(id).String() }

func (id IssuerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalJSON renders the id in canonical UUID form rather than as raw bytes.
func (id IssuerID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *IssuerID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseIssuerID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseIssuerID validates an issuer id at a trust boundary.
func ParseIssuerID(s string) (IssuerID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return IssuerID{}, dErrors.New(dErrors.CodeInvalidInput, "issuer id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return IssuerID{}, dErrors.New(dErrors.CodeInvalidInput, "issuer id must not be nil")
	}
	return IssuerID(parsed), nil
}

// ExperienceID is the position of an experience in the global submission
// order. Ids are assigned by the experience store and never reused.
type ExperienceID int64

func (id ExperienceID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseExperienceID validates an experience id at a trust boundary.
func ParseExperienceID(s string) (ExperienceID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "experience id must be a non-negative integer")
	}
	return ExperienceID(n), nil
}

// TokenID is the position of a token in an issuer's ledger. Ids increase
// monotonically per issuer starting at zero and are never reused.
type TokenID int64

func (id TokenID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseTokenID validates a token id at a trust boundary.
func ParseTokenID(s string) (TokenID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be a non-negative integer")
	}
	return TokenID(n), nil
}
