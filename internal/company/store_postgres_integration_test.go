//go:build integration

package company_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"openbadges/internal/company"
	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
	"openbadges/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *company.PostgresStore
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
	s.store = company.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Now().UTC().Truncate(time.Microsecond)
	err := s.postgres.TruncateTables(s.ctx, "company_issuers", "companies")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) create(identity string) {
	c, err := company.NewCompany(domain.Identity(identity), "Acme Corp", "did:web:acme.example", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, c))
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	s.create("acme")

	found, err := s.store.Find(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal(company.StatusPending, found.Status)

	c, err := company.NewCompany("acme", "Again", "", s.now)
	s.Require().NoError(err)
	s.Require().ErrorIs(s.store.Create(s.ctx, c), sentinel.ErrAlreadyUsed)

	_, err = s.store.Find(s.ctx, "ghost")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestExecutePersistsVerification() {
	s.create("acme")

	c, err := s.store.Execute(s.ctx, "acme", func(c *company.Company) error {
		c.ApplyVerification()
		return nil
	})
	s.Require().NoError(err)
	s.True(c.Verified())

	found, err := s.store.Find(s.ctx, "acme")
	s.Require().NoError(err)
	s.True(found.Verified())
}

func (s *PostgresStoreSuite) TestIssuers() {
	s.create("acme")
	issuerA := domain.NewIssuerID()
	issuerB := domain.NewIssuerID()

	s.Require().NoError(s.store.AppendIssuer(s.ctx, "acme", issuerA, s.now))
	s.Require().NoError(s.store.AppendIssuer(s.ctx, "acme", issuerB, s.now))
	s.Require().ErrorIs(s.store.AppendIssuer(s.ctx, "ghost", issuerA, s.now), sentinel.ErrNotFound)

	issuers, err := s.store.ListIssuers(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal([]domain.IssuerID{issuerA, issuerB}, issuers)

	found, err := s.store.Find(s.ctx, "acme")
	s.Require().NoError(err)
	s.Equal([]domain.IssuerID{issuerA, issuerB}, found.Issuers)
}

func (s *PostgresStoreSuite) TestListOrder() {
	s.create("acme")
	s.create("globex")

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(domain.Identity("acme"), all[0].Identity)
}
