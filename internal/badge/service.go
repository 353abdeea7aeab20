package badge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"openbadges/internal/events"
	"openbadges/internal/platform/metrics"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/requestcontext"
)

// Service is the credential issuer factory plus the per-issuer operations.
// Companies and profiles hold only issuer identifiers; the arena (Store) maps
// identifier to instance.
type Service struct {
	store   Store
	cache   BalanceCache
	events  events.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithCache(cache BalanceCache) Option {
	return func(s *Service) { s.cache = cache }
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

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateIssuer provisions a new credential issuer for the badge class with
// the given owner. Callers are responsible for owner authorization; the
// factory only enforces class invariants.
func (s *Service) CreateIssuer(ctx context.Context, owner domain.Identity, class Class) (*Issuer, error) {
	issuer, err := NewIssuer(domain.NewIssuerID(), owner, class, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.store.Create(ctx, issuer); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create issuer")
	}
	s.metrics.IncBadgeClassesCreated()
	return issuer, nil
}

// CreateBadge is the legacy single-registry path: a badge class with no
// category or level, provisioned directly for an organisation profile.
func (s *Service) CreateBadge(ctx context.Context, owner domain.Identity, title, description, uri string) (domain.IssuerID, error) {
	issuer, err := s.CreateIssuer(ctx, owner, Class{Title: title, Description: description, URI: uri})
	if err != nil {
		return domain.IssuerID{}, err
	}
	return issuer.ID, nil
}

// DeliverBadge mints the next token on the issuer to the recipient. Only the
// issuer owner may mint. Repeated issuance to the same recipient is allowed;
// the ledger does not dedupe holders.
func (s *Service) DeliverBadge(ctx context.Context, caller domain.Identity, id domain.IssuerID, recipient domain.Identity, tokenURI string) (*Token, error) {
	start := time.Now()
	if recipient.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "recipient identity is required")
	}

	issuer, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, wrapIssuerErr(err)
	}
	if issuer.Owner != caller {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the issuer owner can deliver this badge")
	}

	token, err := s.store.Mint(ctx, id, recipient, tokenURI, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapIssuerErr(err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id, recipient); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "balance cache invalidation failed",
				"issuer_id", id.String(),
				"error", err,
			)
		}
	}

	s.emit(ctx, events.Event{
		Type:      events.TypeBadgeDelivered,
		Actor:     caller,
		IssuerID:  id.String(),
		Recipient: recipient,
		TokenID:   int64(token.TokenID),
	})
	s.metrics.IncBadgesDelivered()
	s.metrics.ObserveDeliver(start)
	return token, nil
}

// GetIssuer returns the issuer record by id.
func (s *Service) GetIssuer(ctx context.Context, id domain.IssuerID) (*Issuer, error) {
	issuer, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, wrapIssuerErr(err)
	}
	return issuer, nil
}

// GetBalance returns the number of tokens the holder owns on the issuer,
// reading through the cache when one is configured.
func (s *Service) GetBalance(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, error) {
	if s.cache != nil {
		if balance, ok, err := s.cache.Get(ctx, id, holder); err == nil && ok {
			return balance, nil
		}
	}

	balance, err := s.store.Balance(ctx, id, holder)
	if err != nil {
		return 0, wrapIssuerErr(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, holder, balance); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "balance cache write failed",
				"issuer_id", id.String(),
				"error", err,
			)
		}
	}
	return balance, nil
}

// OwnerOf returns the holder of the given token id.
func (s *Service) OwnerOf(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (domain.Identity, error) {
	token, err := s.store.Token(ctx, id, tokenID)
	if err != nil {
		return "", wrapTokenErr(err)
	}
	return token.Owner, nil
}

// TokenURI returns the metadata reference of the given token id.
func (s *Service) TokenURI(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (string, error) {
	token, err := s.store.Token(ctx, id, tokenID)
	if err != nil {
		return "", wrapTokenErr(err)
	}
	return token.URI, nil
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "event emission failed",
			"type", string(event.Type),
			"error", err,
		)
	}
}

func wrapIssuerErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "issuer not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "issuer store failure")
}

func wrapTokenErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "issuer store failure")
}
