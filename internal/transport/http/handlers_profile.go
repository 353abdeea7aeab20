package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"openbadges/internal/profile"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/requestcontext"
)

// ProfileService defines the profile registry operations the transport needs.
type ProfileService interface {
	CreateProfile(ctx context.Context, caller domain.Identity, uri, kind string) (*profile.Profile, error)
	GetOwnProfile(ctx context.Context, caller domain.Identity) (*profile.Profile, error)
	GetProfile(ctx context.Context, identity domain.Identity) (*profile.Profile, error)
	ListProfiles(ctx context.Context) ([]*profile.Profile, error)
	ListOrganisations(ctx context.Context) ([]*profile.Profile, error)
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	AddMember(ctx context.Context, caller, member domain.Identity) error
	ListMembers(ctx context.Context, caller domain.Identity) ([]domain.Identity, error)
	AddBadge(ctx context.Context, caller domain.Identity, title, description, uri string) (domain.IssuerID, error)
	ListOwnBadges(ctx context.Context, caller domain.Identity) ([]domain.IssuerID, error)
	Owner() domain.Identity
}

// ProfileHandler exposes the profile registry.
type ProfileHandler struct {
	profiles ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Post("/profiles", h.handleCreate)
	r.Get("/profiles", h.handleList)
	r.Get("/profiles/me", h.handleGetOwn)
	r.Get("/profiles/identities", h.handleListIdentities)
	r.Get("/profiles/owner", h.handleGetOwner)
	r.Post("/profiles/badges", h.handleAddBadge)
	r.Get("/profiles/badges", h.handleListOwnBadges)
	r.Get("/profiles/{identity}", h.handleGet)
	r.Get("/organisations", h.handleListOrganisations)
	r.Post("/organisations/members", h.handleAddMember)
	r.Get("/organisations/members", h.handleListMembers)
}

type createProfileRequest struct {
	URI  string `json:"uri"`
	Kind string `json:"kind"`
}

func (h *ProfileHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createProfileRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	p, err := h.profiles.CreateProfile(ctx, requestcontext.Caller(ctx), req.URI, req.Kind)
	if err != nil {
		h.logWarn(ctx, "create profile failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

func (h *ProfileHandler) handleGetOwn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.profiles.GetOwnProfile(ctx, requestcontext.Caller(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) handleGetOwner(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]domain.Identity{"owner": h.profiles.Owner()})
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	p, err := h.profiles.GetProfile(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) handleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.ListProfiles(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) handleListOrganisations(w http.ResponseWriter, r *http.Request) {
	organisations, err := h.profiles.ListOrganisations(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, organisations)
}

func (h *ProfileHandler) handleListIdentities(w http.ResponseWriter, r *http.Request) {
	identities, err := h.profiles.ListIdentities(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, identities)
}

type addMemberRequest struct {
	Member string `json:"member"`
}

func (h *ProfileHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addMemberRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	member, err := domain.ParseIdentity(req.Member)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.profiles.AddMember(ctx, requestcontext.Caller(ctx), member); err != nil {
		h.logWarn(ctx, "add member failed", err)
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	members, err := h.profiles.ListMembers(ctx, requestcontext.Caller(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, members)
}

type addBadgeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URI         string `json:"uri"`
}

type addBadgeResponse struct {
	IssuerID domain.IssuerID `json:"issuer_id"`
}

func (h *ProfileHandler) handleAddBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addBadgeRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	issuerID, err := h.profiles.AddBadge(ctx, requestcontext.Caller(ctx), req.Title, req.Description, req.URI)
	if err != nil {
		h.logWarn(ctx, "add badge failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, addBadgeResponse{IssuerID: issuerID})
}

func (h *ProfileHandler) handleListOwnBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	badges, err := h.profiles.ListOwnBadges(ctx, requestcontext.Caller(ctx))
	if err != nil {
		WriteError(w, err)
		return
	}
	if badges == nil {
		badges = []domain.IssuerID{}
	}
	WriteJSON(w, http.StatusOK, badges)
}

func (h *ProfileHandler) logWarn(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "error", err)
}
