package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"openbadges/internal/badge"
	"openbadges/internal/experience"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/requestcontext"
)

//go:generate mockgen -source=handlers_experience.go -destination=mocks/experience-mocks.go -package=mocks ExperienceService

// ExperienceService defines the workflow operations the transport needs.
type ExperienceService interface {
	Submit(ctx context.Context, caller domain.Identity, title string, level, category int, companyID domain.Identity) (*experience.Experience, error)
	Validate(ctx context.Context, caller domain.Identity, id domain.ExperienceID) (*experience.Experience, error)
	ValidateForBadge(ctx context.Context, caller domain.Identity, id domain.ExperienceID, issuerID domain.IssuerID, tokenURI string) (*experience.Experience, error)
	CreateBadgeClass(ctx context.Context, caller domain.Identity, class badge.Class) (*badge.Issuer, error)
	Get(ctx context.Context, id domain.ExperienceID) (*experience.Experience, error)
	List(ctx context.Context) ([]*experience.Experience, error)
	ListByUser(ctx context.Context, user domain.Identity) ([]*experience.Experience, error)
}

// ExperienceHandler exposes the claim workflow.
type ExperienceHandler struct {
	experiences ExperienceService
	logger      *slog.Logger
}

func NewExperienceHandler(experiences ExperienceService, logger *slog.Logger) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences, logger: logger}
}

func (h *ExperienceHandler) Register(r chi.Router) {
	r.Post("/experiences", h.handleSubmit)
	r.Get("/experiences", h.handleList)
	r.Get("/experiences/user/{identity}", h.handleListByUser)
	r.Get("/experiences/{id}", h.handleGet)
	r.Post("/experiences/{id}/validate", h.handleValidate)
	r.Post("/experiences/{id}/validate-badge", h.handleValidateForBadge)
	r.Post("/badges", h.handleCreateBadgeClass)
}

type submitExperienceRequest struct {
	Title    string `json:"title"`
	Level    int    `json:"level"`
	Category int    `json:"category"`
	Company  string `json:"company"`
}

func (h *ExperienceHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req submitExperienceRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	companyID, err := domain.ParseIdentity(req.Company)
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.experiences.Submit(ctx, requestcontext.Caller(ctx), req.Title, req.Level, req.Category, companyID)
	if err != nil {
		h.logWarn(ctx, "experience submission failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, e)
}

func (h *ExperienceHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseExperienceID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.experiences.Validate(ctx, requestcontext.Caller(ctx), id)
	if err != nil {
		h.logWarn(ctx, "experience validation failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

type validateForBadgeRequest struct {
	IssuerID string `json:"issuer_id"`
	TokenURI string `json:"token_uri"`
}

func (h *ExperienceHandler) handleValidateForBadge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := domain.ParseExperienceID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	var req validateForBadgeRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	issuerID, err := domain.ParseIssuerID(req.IssuerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.experiences.ValidateForBadge(ctx, requestcontext.Caller(ctx), id, issuerID, req.TokenURI)
	if err != nil {
		h.logWarn(ctx, "experience badge validation failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

type createBadgeClassRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	Category    int    `json:"category"`
	Level       int    `json:"level"`
}

func (h *ExperienceHandler) handleCreateBadgeClass(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createBadgeClassRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	issuer, err := h.experiences.CreateBadgeClass(ctx, requestcontext.Caller(ctx), badge.Class{
		Title:       req.Title,
		Description: req.Description,
		URI:         req.URI,
		Category:    req.Category,
		Level:       req.Level,
	})
	if err != nil {
		h.logWarn(ctx, "badge class creation failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, issuer)
}

func (h *ExperienceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseExperienceID(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, err)
		return
	}
	e, err := h.experiences.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

func (h *ExperienceHandler) handleList(w http.ResponseWriter, r *http.Request) {
	experiences, err := h.experiences.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, experiences)
}

func (h *ExperienceHandler) handleListByUser(w http.ResponseWriter, r *http.Request) {
	user, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	experiences, err := h.experiences.ListByUser(r.Context(), user)
	if err != nil {
		WriteError(w, err)
		return
	}
	if experiences == nil {
		experiences = []*experience.Experience{}
	}
	WriteJSON(w, http.StatusOK, experiences)
}

func (h *ExperienceHandler) logWarn(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "error", err)
}
