package httptransport

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbadges/internal/jwttoken"
	"openbadges/pkg/domain"
	"openbadges/pkg/testutil"
)

func newAuthRouter(t *testing.T) (http.Handler, *jwttoken.Service) {
	t.Helper()
	tokens := jwttoken.NewService("test-signing-key", "openbadges")
	r := chi.NewRouter()
	NewAuthHandler(tokens, slog.Default()).Register(r)
	return r, tokens
}

func TestHandleTokenMintsUsableToken(t *testing.T) {
	router, tokens := newAuthRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/token", map[string]string{
		"identity": "acme-corp",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[tokenResponse](t, rr)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	identity, err := tokens.IdentityFromToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("acme-corp"), identity)
}

func TestHandleTokenRejectsEmptyIdentity(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth/token", map[string]string{
		"identity": "  ",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}
