//go:build integration

package badge_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"openbadges/internal/badge"
	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *badge.PostgresStore
	ctx      context.Context
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = badge.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Now().UTC().Truncate(time.Microsecond)
	err := s.postgres.TruncateTables(s.ctx, "tokens", "issuers")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) createIssuer() domain.IssuerID {
	id := domain.NewIssuerID()
	issuer, err := badge.NewIssuer(id, "acme", badge.Class{
		Title:       "Fullstack Developer",
		Description: "Validated fullstack experience",
		URI:         "ipfs://class",
		Category:    1,
		Level:       2,
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, issuer))
	return id
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	id := s.createIssuer()

	found, err := s.store.Find(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(domain.Identity("acme"), found.Owner)
	s.Equal("Fullstack Developer", found.Class.Title)

	dup, err := badge.NewIssuer(id, "acme", badge.Class{Title: "Again"}, s.now)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)

	_, err = s.store.Find(s.ctx, domain.NewIssuerID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMintAssignsSequentialTokenIDs() {
	id := s.createIssuer()

	first, err := s.store.Mint(s.ctx, id, "alice", "ipfs://a", s.now)
	s.Require().NoError(err)
	s.Equal(domain.TokenID(0), first.TokenID)

	second, err := s.store.Mint(s.ctx, id, "bob", "ipfs://b", s.now)
	s.Require().NoError(err)
	s.Equal(domain.TokenID(1), second.TokenID)

	_, err = s.store.Mint(s.ctx, domain.NewIssuerID(), "alice", "ipfs://x", s.now)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestConcurrentMintsNeverCollide() {
	id := s.createIssuer()

	const workers = 8
	var wg sync.WaitGroup
	tokenIDs := make(chan domain.TokenID, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := s.store.Mint(s.ctx, id, "alice", "ipfs://a", s.now)
			s.Assert().NoError(err)
			if token != nil {
				tokenIDs <- token.TokenID
			}
		}()
	}
	wg.Wait()
	close(tokenIDs)

	seen := make(map[domain.TokenID]bool)
	for tokenID := range tokenIDs {
		s.False(seen[tokenID], "token id %d minted twice", tokenID)
		seen[tokenID] = true
	}
	s.Len(seen, workers)

	balance, err := s.store.Balance(s.ctx, id, "alice")
	s.Require().NoError(err)
	s.Equal(int64(workers), balance)
}

func (s *PostgresStoreSuite) TestTokenAndBalance() {
	id := s.createIssuer()

	minted, err := s.store.Mint(s.ctx, id, "alice", "ipfs://a", s.now)
	s.Require().NoError(err)

	token, err := s.store.Token(s.ctx, id, minted.TokenID)
	s.Require().NoError(err)
	s.Equal(domain.Identity("alice"), token.Owner)
	s.Equal("ipfs://a", token.URI)

	_, err = s.store.Token(s.ctx, id, minted.TokenID+1)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	balance, err := s.store.Balance(s.ctx, id, "bob")
	s.Require().NoError(err)
	s.Zero(balance)

	_, err = s.store.Balance(s.ctx, domain.NewIssuerID(), "alice")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
