package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
)

const accessTokenTTL = time.Hour

// TokenIssuer mints access tokens for a declared identity.
type TokenIssuer interface {
	GenerateAccessToken(identity domain.Identity, expiresIn time.Duration) (string, error)
}

// AuthHandler exposes the development token endpoint. Identity establishment
// is out of scope for the registries, so the endpoint mints a token for
// whatever identity the client declares.
type AuthHandler struct {
	tokens TokenIssuer
	logger *slog.Logger
}

func NewAuthHandler(tokens TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{tokens: tokens, logger: logger}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/token", h.handleToken)
}

type tokenRequest struct {
	Identity string `json:"identity"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *AuthHandler) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	identity, err := domain.ParseIdentity(req.Identity)
	if err != nil {
		WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(identity, accessTokenTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to mint access token", "error", err)
		WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to mint access token"))
		return
	}
	WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	})
}
