package company

import (
	"context"
	"errors"
	"log/slog"

	"openbadges/internal/platform/metrics"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/requestcontext"
)

// Service orchestrates the company registry. Verification is reserved for the
// registry admin identity fixed at construction.
type Service struct {
	store   Store
	admin   domain.Identity
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, admin domain.Identity, opts ...Option) *Service {
	s := &Service{store: store, admin: admin}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit registers the caller as a pending company. One registration per
// identity.
func (s *Service) Submit(ctx context.Context, caller domain.Identity, name, didURI string) (*Company, error) {
	c, err := NewCompany(caller, name, didURI, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "company already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register company")
	}
	s.metrics.IncCompaniesSubmitted()

	if s.logger != nil {
		s.logger.InfoContext(ctx, "company registration submitted",
			"company", caller.String(),
			"name", c.Name,
		)
	}
	return c, nil
}

// Verify moves a registration to verified. Admin only; verifying an already
// verified company is a no-op.
func (s *Service) Verify(ctx context.Context, caller, identity domain.Identity) (*Company, error) {
	if caller != s.admin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the registry admin can verify companies")
	}

	alreadyVerified := false
	c, err := s.store.Execute(ctx, identity, func(c *Company) error {
		alreadyVerified = c.Verified()
		c.ApplyVerification()
		return nil
	})
	if err != nil {
		return nil, wrapCompanyErr(err)
	}
	if !alreadyVerified {
		s.metrics.IncCompaniesVerified()
		if s.logger != nil {
			s.logger.InfoContext(ctx, "company verified", "company", identity.String())
		}
	}
	return c, nil
}

// Get reads a registration by identity.
func (s *Service) Get(ctx context.Context, identity domain.Identity) (*Company, error) {
	c, err := s.store.Find(ctx, identity)
	if err != nil {
		return nil, wrapCompanyErr(err)
	}
	return c, nil
}

// List returns every registration in submission order.
func (s *Service) List(ctx context.Context) ([]*Company, error) {
	return s.store.List(ctx)
}

// ListIssuers returns the badge classes anchored to a company.
func (s *Service) ListIssuers(ctx context.Context, identity domain.Identity) ([]domain.IssuerID, error) {
	ids, err := s.store.ListIssuers(ctx, identity)
	if err != nil {
		return nil, wrapCompanyErr(err)
	}
	return ids, nil
}

// RecordIssuer attributes a badge class to a company. Called by the
// experience workflow after the issuer is provisioned; not exposed at the
// HTTP boundary.
func (s *Service) RecordIssuer(ctx context.Context, identity domain.Identity, issuerID domain.IssuerID) error {
	if err := s.store.AppendIssuer(ctx, identity, issuerID, requestcontext.Now(ctx)); err != nil {
		return wrapCompanyErr(err)
	}
	return nil
}

func wrapCompanyErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Company does not exist")
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "company store failure")
}
