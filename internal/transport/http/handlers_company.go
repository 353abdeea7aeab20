package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"openbadges/internal/company"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/requestcontext"
)

// CompanyService defines the company registry operations the transport needs.
type CompanyService interface {
	Submit(ctx context.Context, caller domain.Identity, name, didURI string) (*company.Company, error)
	Verify(ctx context.Context, caller, identity domain.Identity) (*company.Company, error)
	Get(ctx context.Context, identity domain.Identity) (*company.Company, error)
	List(ctx context.Context) ([]*company.Company, error)
	ListIssuers(ctx context.Context, identity domain.Identity) ([]domain.IssuerID, error)
}

// CompanyHandler exposes the company registry.
type CompanyHandler struct {
	companies CompanyService
	logger    *slog.Logger
}

func NewCompanyHandler(companies CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{companies: companies, logger: logger}
}

func (h *CompanyHandler) Register(r chi.Router) {
	r.Post("/companies", h.handleSubmit)
	r.Get("/companies", h.handleList)
	r.Get("/companies/{identity}", h.handleGet)
	r.Post("/companies/{identity}/verify", h.handleVerify)
	r.Get("/companies/{identity}/issuers", h.handleListIssuers)
}

type submitCompanyRequest struct {
	Name   string `json:"name"`
	DidURI string `json:"did_uri"`
}

func (h *CompanyHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req submitCompanyRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	c, err := h.companies.Submit(ctx, requestcontext.Caller(ctx), req.Name, req.DidURI)
	if err != nil {
		h.logWarn(ctx, "company submission failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

func (h *CompanyHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	c, err := h.companies.Verify(ctx, requestcontext.Caller(ctx), identity)
	if err != nil {
		h.logWarn(ctx, "company verification failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	c, err := h.companies.Get(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) handleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.companies.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, companies)
}

func (h *CompanyHandler) handleListIssuers(w http.ResponseWriter, r *http.Request) {
	identity, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	issuers, err := h.companies.ListIssuers(r.Context(), identity)
	if err != nil {
		WriteError(w, err)
		return
	}
	if issuers == nil {
		issuers = []domain.IssuerID{}
	}
	WriteJSON(w, http.StatusOK, issuers)
}

func (h *CompanyHandler) logWarn(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "error", err)
}
