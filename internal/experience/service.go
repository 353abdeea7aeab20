package experience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"openbadges/internal/badge"
	"openbadges/internal/company"
	"openbadges/internal/events"
	"openbadges/internal/platform/metrics"
	"openbadges/internal/profile"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/requestcontext"
)

// CompanyRegistry is the slice of the company registry the workflow needs:
// resolving the target of a claim and anchoring provisioned issuers.
type CompanyRegistry interface {
	Get(ctx context.Context, identity domain.Identity) (*company.Company, error)
	RecordIssuer(ctx context.Context, identity domain.Identity, issuerID domain.IssuerID) error
}

// CategoryRegistry answers whether a category index is known.
type CategoryRegistry interface {
	Exists(index int) bool
}

// ProfileRegistry attributes exchanged credentials to claimant profiles.
type ProfileRegistry interface {
	GetProfile(ctx context.Context, identity domain.Identity) (*profile.Profile, error)
	AddReceivedBadge(ctx context.Context, holder domain.Identity, issuerID domain.IssuerID) error
}

// BadgeFactory provisions credential issuers for validated workflows.
type BadgeFactory interface {
	CreateIssuer(ctx context.Context, owner domain.Identity, class badge.Class) (*badge.Issuer, error)
}

// Service orchestrates the claim workflow across the registries. It is the
// only component allowed to write cross-registry state (company issuer lists,
// profile credential lists).
type Service struct {
	store      Store
	companies  CompanyRegistry
	categories CategoryRegistry
	profiles   ProfileRegistry
	factory    BadgeFactory
	events     events.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(s *Service)

func WithProfiles(profiles ProfileRegistry) Option {
	return func(s *Service) { s.profiles = profiles }
}

func WithFactory(factory BadgeFactory) Option {
	return func(s *Service) { s.factory = factory }
}

func WithEvents(publisher events.Publisher) Option {
	return func(s *Service) { s.events = publisher }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, companies CompanyRegistry, categories CategoryRegistry, opts ...Option) *Service {
	s := &Service{
		store:      store,
		companies:  companies,
		categories: categories,
		tracer:     otel.Tracer("openbadges/experience"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends an unvalidated claim for the caller against a registered
// company.
func (s *Service) Submit(ctx context.Context, caller domain.Identity, title string, level, category int, companyID domain.Identity) (*Experience, error) {
	ctx, span := s.tracer.Start(ctx, "experience.Submit",
		trace.WithAttributes(attribute.String("company", companyID.String())))
	defer span.End()

	if _, err := s.companies.Get(ctx, companyID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidReference, "Company does not exist")
		}
		return nil, err
	}
	if !s.categories.Exists(category) {
		return nil, dErrors.New(dErrors.CodeInvalidReference, "unknown category")
	}

	e, err := NewExperience(title, level, category, companyID, caller, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	id, err := s.store.Append(ctx, e)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit experience")
	}
	e.ID = id
	span.SetAttributes(attribute.Int64("experience_id", int64(id)))

	s.metrics.IncExperiencesSubmitted()
	s.emit(ctx, events.Event{
		Type:         events.TypeExperienceSubmitted,
		Actor:        caller,
		ExperienceID: id,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "experience submitted",
			"experience_id", int64(id),
			"company", companyID.String(),
			"user", caller.String(),
		)
	}
	return e, nil
}

// Validate marks a claim validated. Only the named company may do so; this
// path issues no credential.
func (s *Service) Validate(ctx context.Context, caller domain.Identity, id domain.ExperienceID) (*Experience, error) {
	ctx, span := s.tracer.Start(ctx, "experience.Validate",
		trace.WithAttributes(attribute.Int64("experience_id", int64(id))))
	defer span.End()
	start := time.Now()

	e, err := s.store.Execute(ctx, id, func(e *Experience) error {
		return s.applyValidation(e, caller)
	})
	if err != nil {
		return nil, wrapExperienceErr(err)
	}

	s.metrics.IncExperiencesValidated()
	s.metrics.ObserveValidate(start)
	s.emit(ctx, events.Event{
		Type:         events.TypeExperienceValidated,
		Actor:        caller,
		ExperienceID: id,
		Recipient:    e.UserID,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "experience validated",
			"experience_id", int64(id),
			"company", caller.String(),
		)
	}
	return e, nil
}

// CreateBadgeClass provisions a credential issuer owned by the calling
// company and anchors it in the company registry. The caller must be
// Verified. No experience is touched and no token minted.
func (s *Service) CreateBadgeClass(ctx context.Context, caller domain.Identity, class badge.Class) (*badge.Issuer, error) {
	ctx, span := s.tracer.Start(ctx, "experience.CreateBadgeClass",
		trace.WithAttributes(attribute.String("owner", caller.String())))
	defer span.End()

	if s.factory == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "badge factory not configured")
	}

	c, err := s.companies.Get(ctx, caller)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "Company does not exist")
		}
		return nil, err
	}
	if !c.Verified() {
		return nil, dErrors.New(dErrors.CodeForbidden, "company is not verified")
	}

	issuer, err := s.factory.CreateIssuer(ctx, caller, class)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := s.companies.RecordIssuer(ctx, caller, issuer.ID); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("issuer_id", issuer.ID.String()))

	s.emit(ctx, events.Event{
		Type:     events.TypeBadgeClassCreated,
		Actor:    caller,
		IssuerID: issuer.ID.String(),
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "badge class created",
			"issuer_id", issuer.ID.String(),
			"company", caller.String(),
		)
	}
	return issuer, nil
}

// ValidateForBadge marks a claim validated, links it to an existing issuer,
// and attributes the issuer to the claimant's profile. Minting the token is a
// separate explicit issuer call; the two steps are not transactionally
// coupled.
func (s *Service) ValidateForBadge(ctx context.Context, caller domain.Identity, id domain.ExperienceID, issuerID domain.IssuerID, tokenURI string) (*Experience, error) {
	ctx, span := s.tracer.Start(ctx, "experience.ValidateForBadge",
		trace.WithAttributes(
			attribute.Int64("experience_id", int64(id)),
			attribute.String("issuer_id", issuerID.String()),
		))
	defer span.End()
	start := time.Now()

	e, err := s.store.Execute(ctx, id, func(e *Experience) error {
		if err := s.applyValidation(e, caller); err != nil {
			return err
		}
		// The claimant must hold a profile before the validation commits;
		// otherwise the attribution below would fail after the claim is
		// marked validated and the claim could never be exchanged again.
		if s.profiles != nil {
			if _, err := s.profiles.GetProfile(ctx, e.UserID); err != nil {
				return err
			}
		}
		e.IssuerID = &issuerID
		e.TokenURI = tokenURI
		return nil
	})
	if err != nil {
		return nil, wrapExperienceErr(err)
	}

	if s.profiles != nil {
		if err := s.profiles.AddReceivedBadge(ctx, e.UserID, issuerID); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	s.metrics.IncExperiencesValidated()
	s.metrics.ObserveValidate(start)
	s.emit(ctx, events.Event{
		Type:         events.TypeExperienceValidated,
		Actor:        caller,
		ExperienceID: id,
		IssuerID:     issuerID.String(),
		Recipient:    e.UserID,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "experience validated for badge",
			"experience_id", int64(id),
			"issuer_id", issuerID.String(),
			"user", e.UserID.String(),
		)
	}
	return e, nil
}

// Get reads a claim by ID.
func (s *Service) Get(ctx context.Context, id domain.ExperienceID) (*Experience, error) {
	e, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, wrapExperienceErr(err)
	}
	return e, nil
}

// List returns every claim in submission order.
func (s *Service) List(ctx context.Context) ([]*Experience, error) {
	return s.store.List(ctx)
}

// ListByUser returns a claimant's claims in submission order.
func (s *Service) ListByUser(ctx context.Context, user domain.Identity) ([]*Experience, error) {
	return s.store.ListByUser(ctx, user)
}

func (s *Service) applyValidation(e *Experience, caller domain.Identity) error {
	if caller != e.CompanyID {
		return dErrors.New(dErrors.CodeForbidden, "only the named company can validate this experience")
	}
	if e.Validated {
		return sentinel.ErrInvalidState
	}
	e.Validated = true
	return nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, events.Stamp(event)); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "event emission failed",
			"type", string(event.Type), "error", err)
	}
}

func wrapExperienceErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "experience not found")
	}
	if errors.Is(err, sentinel.ErrInvalidState) {
		return dErrors.New(dErrors.CodeConflict, "experience already validated")
	}
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "experience store failure")
}
