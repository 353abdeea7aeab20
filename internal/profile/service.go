package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"openbadges/internal/platform/metrics"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/requestcontext"
)

// BadgeFactory provisions a credential issuer for the legacy direct path
// (an organisation creating a badge class straight from its profile).
type BadgeFactory interface {
	CreateBadge(ctx context.Context, owner domain.Identity, title, description, uri string) (domain.IssuerID, error)
}

// Service orchestrates the profile registry. Authorization is a predicate
// over stored state and the explicit caller identity.
type Service struct {
	store   Store
	factory BadgeFactory
	owner   domain.Identity
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithFactory(factory BadgeFactory) Option {
	return func(s *Service) { s.factory = factory }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the registry. The owner is the deployer identity,
// fixed for the registry's lifetime.
func NewService(store Store, owner domain.Identity, opts ...Option) *Service {
	s := &Service{store: store, owner: owner}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner returns the registry deployer identity.
func (s *Service) Owner() domain.Identity { return s.owner }

// CreateProfile registers the caller. At most one profile per identity;
// organisation-like kinds additionally surface through the organisations view.
func (s *Service) CreateProfile(ctx context.Context, caller domain.Identity, uri, kind string) (*Profile, error) {
	p, err := NewProfile(caller, strings.TrimSpace(uri), kind, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "profile already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create profile")
	}
	s.metrics.IncProfilesCreated()
	return p, nil
}

// GetOwnProfile reads the caller's profile.
func (s *Service) GetOwnProfile(ctx context.Context, caller domain.Identity) (*Profile, error) {
	return s.GetProfile(ctx, caller)
}

// GetProfile reads any identity's profile.
func (s *Service) GetProfile(ctx context.Context, identity domain.Identity) (*Profile, error) {
	p, err := s.store.Find(ctx, identity)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	return p, nil
}

// ListProfiles returns every profile in insertion order.
func (s *Service) ListProfiles(ctx context.Context) ([]*Profile, error) {
	return s.store.List(ctx)
}

// ListOrganisations returns the derived all-organisations view.
func (s *Service) ListOrganisations(ctx context.Context) ([]*Profile, error) {
	return s.store.ListOrganisations(ctx)
}

// ListIdentities returns every registered identity in insertion order.
func (s *Service) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	return s.store.ListIdentities(ctx)
}

// AddMember admits a member to the caller's organisation. Membership is a
// set: admitting the same identity twice fails with Conflict.
func (s *Service) AddMember(ctx context.Context, caller, member domain.Identity) error {
	if _, err := s.requireOrganisation(ctx, caller); err != nil {
		return err
	}
	if member.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "member identity is required")
	}
	if err := s.store.AddMember(ctx, caller, member, requestcontext.Now(ctx)); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeConflict, "member already admitted")
		}
		return wrapProfileErr(err)
	}
	return nil
}

// ListMembers reads the caller's own member set.
func (s *Service) ListMembers(ctx context.Context, caller domain.Identity) ([]domain.Identity, error) {
	if _, err := s.requireOrganisation(ctx, caller); err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, caller)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	return members, nil
}

// AddReceivedBadge attributes an issuer to a holder's profile. Not exposed at
// the HTTP boundary: only the experience workflow calls it, after validating
// the claim.
func (s *Service) AddReceivedBadge(ctx context.Context, holder domain.Identity, issuerID domain.IssuerID) error {
	if err := s.store.AppendCredential(ctx, holder, issuerID, requestcontext.Now(ctx)); err != nil {
		return wrapProfileErr(err)
	}
	return nil
}

// AddBadge is the legacy single-registry path: an organisation provisions a
// badge class directly, without the experience workflow.
func (s *Service) AddBadge(ctx context.Context, caller domain.Identity, title, description, uri string) (domain.IssuerID, error) {
	if _, err := s.requireOrganisation(ctx, caller); err != nil {
		return domain.IssuerID{}, err
	}
	if s.factory == nil {
		return domain.IssuerID{}, dErrors.New(dErrors.CodeInternal, "badge factory not configured")
	}

	issuerID, err := s.factory.CreateBadge(ctx, caller, title, description, uri)
	if err != nil {
		return domain.IssuerID{}, err
	}
	if err := s.store.AppendBadgeCreated(ctx, caller, issuerID, requestcontext.Now(ctx)); err != nil {
		return domain.IssuerID{}, wrapProfileErr(err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "badge class created",
			"issuer_id", issuerID.String(),
			"owner", caller.String(),
		)
	}
	return issuerID, nil
}

// ListOwnBadges returns the issuers the calling organisation created via the
// direct path.
func (s *Service) ListOwnBadges(ctx context.Context, caller domain.Identity) ([]domain.IssuerID, error) {
	p, err := s.requireOrganisation(ctx, caller)
	if err != nil {
		return nil, err
	}
	return p.BadgesCreated, nil
}

// requireOrganisation loads the caller's profile and enforces the
// organisation-only privilege.
func (s *Service) requireOrganisation(ctx context.Context, caller domain.Identity) (*Profile, error) {
	p, err := s.store.Find(ctx, caller)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Profile does not exist")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "profile store failure")
	}
	if !p.IsOrganisation() {
		return nil, dErrors.New(dErrors.CodeForbidden, "Only organisations can call this func")
	}
	return p, nil
}

func wrapProfileErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Profile does not exist")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "profile store failure")
}
