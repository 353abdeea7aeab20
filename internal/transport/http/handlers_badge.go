package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"openbadges/internal/badge"
	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/requestcontext"
)

// BadgeService defines the credential issuer operations the transport needs.
type BadgeService interface {
	DeliverBadge(ctx context.Context, caller domain.Identity, id domain.IssuerID, recipient domain.Identity, tokenURI string) (*badge.Token, error)
	GetIssuer(ctx context.Context, id domain.IssuerID) (*badge.Issuer, error)
	GetBalance(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, error)
	OwnerOf(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (domain.Identity, error)
	TokenURI(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (string, error)
}

// BadgeHandler exposes the credential issuer ledger.
type BadgeHandler struct {
	badges BadgeService
	logger *slog.Logger
}

func NewBadgeHandler(badges BadgeService, logger *slog.Logger) *BadgeHandler {
	return &BadgeHandler{badges: badges, logger: logger}
}

func (h *BadgeHandler) Register(r chi.Router) {
	r.Get("/badges/{issuerID}", h.handleGetIssuer)
	r.Post("/badges/{issuerID}/deliver", h.handleDeliver)
	r.Get("/badges/{issuerID}/balance/{identity}", h.handleBalance)
	r.Get("/badges/{issuerID}/tokens/{tokenID}", h.handleToken)
}

func issuerIDParam(r *http.Request) (domain.IssuerID, error) {
	return domain.ParseIssuerID(chi.URLParam(r, "issuerID"))
}

type deliverBadgeRequest struct {
	Recipient string `json:"recipient"`
	TokenURI  string `json:"token_uri"`
}

func (h *BadgeHandler) handleDeliver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	issuerID, err := issuerIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	var req deliverBadgeRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	recipient, err := domain.ParseIdentity(req.Recipient)
	if err != nil {
		WriteError(w, err)
		return
	}
	token, err := h.badges.DeliverBadge(ctx, requestcontext.Caller(ctx), issuerID, recipient, req.TokenURI)
	if err != nil {
		h.logWarn(ctx, "badge delivery failed", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, token)
}

func (h *BadgeHandler) handleGetIssuer(w http.ResponseWriter, r *http.Request) {
	issuerID, err := issuerIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	issuer, err := h.badges.GetIssuer(r.Context(), issuerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, issuer)
}

type balanceResponse struct {
	IssuerID domain.IssuerID `json:"issuer_id"`
	Holder   domain.Identity `json:"holder"`
	Balance  int64           `json:"balance"`
}

func (h *BadgeHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	issuerID, err := issuerIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	holder, err := domain.ParseIdentity(chi.URLParam(r, "identity"))
	if err != nil {
		WriteError(w, err)
		return
	}
	balance, err := h.badges.GetBalance(r.Context(), issuerID, holder)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, balanceResponse{IssuerID: issuerID, Holder: holder, Balance: balance})
}

type tokenDetailsResponse struct {
	IssuerID domain.IssuerID `json:"issuer_id"`
	TokenID  domain.TokenID  `json:"token_id"`
	Owner    domain.Identity `json:"owner"`
	URI      string          `json:"uri"`
}

func (h *BadgeHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	issuerID, err := issuerIDParam(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	tokenID, err := domain.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	owner, err := h.badges.OwnerOf(r.Context(), issuerID, tokenID)
	if err != nil {
		WriteError(w, err)
		return
	}
	uri, err := h.badges.TokenURI(r.Context(), issuerID, tokenID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tokenDetailsResponse{
		IssuerID: issuerID,
		TokenID:  tokenID,
		Owner:    owner,
		URI:      uri,
	})
}

func (h *BadgeHandler) logWarn(ctx context.Context, msg string, err error) {
	if h.logger == nil {
		return
	}
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "error", err)
}
