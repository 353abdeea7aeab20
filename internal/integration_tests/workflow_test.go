// Package integrationtests exercises the full registry chain through the
// real router: profile creation, company verification, experience
// submission and validation, badge class provisioning, and token issuance.
package integrationtests

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openbadges/internal/badge"
	"openbadges/internal/category"
	"openbadges/internal/company"
	"openbadges/internal/events"
	"openbadges/internal/experience"
	"openbadges/internal/jwttoken"
	"openbadges/internal/profile"
	httptransport "openbadges/internal/transport/http"
	"openbadges/pkg/domain"
	"openbadges/pkg/testutil"
)

const admin = "registry-admin"

type registrySet struct {
	router http.Handler
	tokens *jwttoken.Service
	sink   *events.MemorySink
	cancel func()
}

func newRegistrySet(t *testing.T) *registrySet {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := jwttoken.NewService("integration-signing-key", "openbadges")

	publisher := events.NewChannelPublisher(64)
	sink := events.NewMemorySink()
	worker := events.NewWorker(sink, publisher.Inbox())
	ctx, cancel := newWorkerContext(t)
	go func() { _ = worker.Run(ctx) }()

	badges := badge.NewService(badge.NewInMemoryStore(),
		badge.WithLogger(logger), badge.WithEvents(publisher))
	profiles := profile.NewService(profile.NewInMemoryStore(), admin,
		profile.WithFactory(badges), profile.WithLogger(logger))
	companies := company.NewService(company.NewInMemoryStore(), admin,
		company.WithLogger(logger))
	categories := category.NewRegistry()
	experiences := experience.NewService(experience.NewInMemoryStore(), companies, categories,
		experience.WithProfiles(profiles),
		experience.WithFactory(badges),
		experience.WithEvents(publisher),
		experience.WithLogger(logger),
	)

	router := httptransport.NewRouter(httptransport.Handlers{
		Auth:       httptransport.NewAuthHandler(tokens, logger),
		Profile:    httptransport.NewProfileHandler(profiles, logger),
		Company:    httptransport.NewCompanyHandler(companies, logger),
		Category:   httptransport.NewCategoryHandler(categories),
		Experience: httptransport.NewExperienceHandler(experiences, logger),
		Badge:      httptransport.NewBadgeHandler(badges, logger),
	}, tokens, logger)

	return &registrySet{router: router, tokens: tokens, sink: sink, cancel: cancel}
}

func (rs *registrySet) do(t *testing.T, caller, method, path string, body any) *httptestRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if caller != "" {
		token, err := rs.tokens.GenerateAccessToken(domain.Identity(caller), time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return &httptestRecorder{testutil.DoRequest(rs.router, req)}
}

func TestFullIssuanceChain(t *testing.T) {
	rs := newRegistrySet(t)
	defer rs.cancel()

	// Registration: claimant profile, company profile, company record.
	rs.do(t, "alice", http.MethodPost, "/profiles",
		map[string]string{"uri": "ipfs://alice", "kind": "individual"}).expect(t, http.StatusCreated)
	rs.do(t, "acme", http.MethodPost, "/profiles",
		map[string]string{"uri": "ipfs://acme", "kind": "company"}).expect(t, http.StatusCreated)
	rs.do(t, "acme", http.MethodPost, "/companies",
		map[string]string{"name": "Acme Corp", "did_uri": "did:web:acme.example"}).expect(t, http.StatusCreated)

	// A pending company cannot provision badge classes.
	rs.do(t, "acme", http.MethodPost, "/badges", map[string]any{
		"title": "Backend Intern", "uri": "ipfs://class", "category": 1, "level": 2,
	}).expect(t, http.StatusForbidden)

	// Only the admin can verify.
	rs.do(t, "acme", http.MethodPost, "/companies/acme/verify", nil).expect(t, http.StatusForbidden)
	rs.do(t, admin, http.MethodPost, "/companies/acme/verify", nil).expect(t, http.StatusOK)

	// Alice claims an internship at acme.
	var submitted experience.Experience
	rs.do(t, "alice", http.MethodPost, "/experiences", map[string]any{
		"title": "Backend internship", "level": 2, "category": 1, "company": "acme",
	}).expect(t, http.StatusCreated).decode(t, &submitted)
	assert.False(t, submitted.Validated)

	// Acme provisions the badge class for the internship.
	var issuer badge.Issuer
	rs.do(t, "acme", http.MethodPost, "/badges", map[string]any{
		"title": "Backend Intern", "uri": "ipfs://class", "category": 1, "level": 2,
	}).expect(t, http.StatusCreated).decode(t, &issuer)

	// Acme validates the claim against the issuer; alice is not allowed to.
	path := fmt.Sprintf("/experiences/%d/validate-badge", submitted.ID)
	body := map[string]string{"issuer_id": issuer.ID.String(), "token_uri": "ipfs://evidence"}
	rs.do(t, "alice", http.MethodPost, path, body).expect(t, http.StatusForbidden)
	rs.do(t, "acme", http.MethodPost, path, body).expect(t, http.StatusOK)

	// Validation alone mints nothing.
	var balance struct {
		Balance int64 `json:"balance"`
	}
	rs.do(t, "alice", http.MethodGet,
		fmt.Sprintf("/badges/%s/balance/alice", issuer.ID), nil).
		expect(t, http.StatusOK).decode(t, &balance)
	assert.Zero(t, balance.Balance)

	// The explicit issuance step: only the issuer owner may deliver.
	deliverPath := fmt.Sprintf("/badges/%s/deliver", issuer.ID)
	deliverBody := map[string]string{"recipient": "alice", "token_uri": "ipfs://evidence"}
	rs.do(t, "alice", http.MethodPost, deliverPath, deliverBody).expect(t, http.StatusForbidden)

	var token badge.Token
	rs.do(t, "acme", http.MethodPost, deliverPath, deliverBody).
		expect(t, http.StatusCreated).decode(t, &token)
	assert.Equal(t, domain.TokenID(0), token.TokenID)

	// The ledger, the company record, and alice's profile all reflect it.
	rs.do(t, "alice", http.MethodGet,
		fmt.Sprintf("/badges/%s/balance/alice", issuer.ID), nil).
		expect(t, http.StatusOK).decode(t, &balance)
	assert.Equal(t, int64(1), balance.Balance)

	var ownerResp struct {
		Owner domain.Identity `json:"owner"`
		URI   string          `json:"uri"`
	}
	rs.do(t, "alice", http.MethodGet,
		fmt.Sprintf("/badges/%s/tokens/0", issuer.ID), nil).
		expect(t, http.StatusOK).decode(t, &ownerResp)
	assert.Equal(t, domain.Identity("alice"), ownerResp.Owner)
	assert.Equal(t, "ipfs://evidence", ownerResp.URI)

	var issuers []domain.IssuerID
	rs.do(t, "alice", http.MethodGet, "/companies/acme/issuers", nil).
		expect(t, http.StatusOK).decode(t, &issuers)
	assert.Equal(t, []domain.IssuerID{issuer.ID}, issuers)

	var aliceProfile profile.Profile
	rs.do(t, "alice", http.MethodGet, "/profiles/me", nil).
		expect(t, http.StatusOK).decode(t, &aliceProfile)
	assert.Equal(t, []domain.IssuerID{issuer.ID}, aliceProfile.CredentialsReceived)

	// The event trail covers the whole chain.
	assert.Eventually(t, func() bool {
		types := make(map[events.Type]int)
		for _, e := range rs.sink.Events() {
			types[e.Type]++
		}
		return types[events.TypeExperienceSubmitted] == 1 &&
			types[events.TypeExperienceValidated] == 1 &&
			types[events.TypeBadgeClassCreated] == 1 &&
			types[events.TypeBadgeDelivered] == 1
	}, time.Second, 5*time.Millisecond)
}

func TestAuthBoundary(t *testing.T) {
	rs := newRegistrySet(t)
	defer rs.cancel()

	t.Run("missing token is unauthorized", func(t *testing.T) {
		rs.do(t, "", http.MethodGet, "/profiles", nil).expect(t, http.StatusUnauthorized)
	})

	t.Run("categories are public", func(t *testing.T) {
		var categories []category.Category
		rs.do(t, "", http.MethodGet, "/categories", nil).
			expect(t, http.StatusOK).decode(t, &categories)
		assert.Len(t, categories, 4)
	})

	t.Run("healthz is public", func(t *testing.T) {
		rs.do(t, "", http.MethodGet, "/healthz", nil).expect(t, http.StatusOK)
	})
}

func TestRegistryOwner(t *testing.T) {
	rs := newRegistrySet(t)
	defer rs.cancel()

	var resp struct {
		Owner domain.Identity `json:"owner"`
	}
	rs.do(t, "alice", http.MethodGet, "/profiles/owner", nil).
		expect(t, http.StatusOK).decode(t, &resp)
	assert.Equal(t, domain.Identity(admin), resp.Owner)
}

func TestMembershipOverHTTP(t *testing.T) {
	rs := newRegistrySet(t)
	defer rs.cancel()

	rs.do(t, "uni", http.MethodPost, "/profiles",
		map[string]string{"uri": "ipfs://uni", "kind": "university"}).expect(t, http.StatusCreated)
	rs.do(t, "bob", http.MethodPost, "/profiles",
		map[string]string{"uri": "ipfs://bob", "kind": "individual"}).expect(t, http.StatusCreated)

	t.Run("organisation admits members once", func(t *testing.T) {
		rs.do(t, "uni", http.MethodPost, "/organisations/members",
			map[string]string{"member": "bob"}).expect(t, http.StatusNoContent)
		rs.do(t, "uni", http.MethodPost, "/organisations/members",
			map[string]string{"member": "bob"}).expect(t, http.StatusConflict)
	})

	t.Run("individuals cannot admit members", func(t *testing.T) {
		rr := rs.do(t, "bob", http.MethodPost, "/organisations/members",
			map[string]string{"member": "uni"})
		rr.expect(t, http.StatusForbidden)
		assert.Contains(t, rr.Body.String(), "Only organisations can call this func")
	})

	t.Run("organisations view lists only organisation-like profiles", func(t *testing.T) {
		var orgs []profile.Profile
		rs.do(t, "bob", http.MethodGet, "/organisations", nil).
			expect(t, http.StatusOK).decode(t, &orgs)
		require.Len(t, orgs, 1)
		assert.Equal(t, domain.Identity("uni"), orgs[0].Identity)
	})
}
