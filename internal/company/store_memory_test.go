package company

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

type CompanyStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
	now   time.Time
}

func TestCompanyStoreSuite(t *testing.T) {
	suite.Run(t, new(CompanyStoreSuite))
}

func (s *CompanyStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CompanyStoreSuite) newCompany(identity string) *Company {
	c, err := NewCompany(domain.Identity(identity), "Acme Corp", "did:web:acme.example", s.now)
	s.Require().NoError(err)
	return c
}

func (s *CompanyStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds a registration", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newCompany("acme")))

		found, err := s.store.Find(s.ctx, "acme")
		s.Require().NoError(err)
		s.Equal(StatusPending, found.Status)
		s.Equal("Acme Corp", found.Name)
	})

	s.Run("rejects a second registration for the same identity", func() {
		err := s.store.Create(s.ctx, s.newCompany("acme"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("returns ErrNotFound for unknown identity", func() {
		_, err := s.store.Find(s.ctx, "ghost")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CompanyStoreSuite) TestListOrder() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("acme")))
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("globex")))

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(domain.Identity("acme"), all[0].Identity)
	s.Equal(domain.Identity("globex"), all[1].Identity)
}

func (s *CompanyStoreSuite) TestExecute() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("acme")))

	s.Run("persists mutations", func() {
		c, err := s.store.Execute(s.ctx, "acme", func(c *Company) error {
			c.ApplyVerification()
			return nil
		})
		s.Require().NoError(err)
		s.Equal(StatusVerified, c.Status)

		found, err := s.store.Find(s.ctx, "acme")
		s.Require().NoError(err)
		s.True(found.Verified())
	})

	s.Run("aborts the write when fn errors", func() {
		sentinelErr := errors.New("abort")
		_, err := s.store.Execute(s.ctx, "acme", func(c *Company) error {
			c.Name = "Mutated"
			return sentinelErr
		})
		s.Require().ErrorIs(err, sentinelErr)

		found, err := s.store.Find(s.ctx, "acme")
		s.Require().NoError(err)
		s.Equal("Acme Corp", found.Name)
	})

	s.Run("returns ErrNotFound for unknown identity", func() {
		_, err := s.store.Execute(s.ctx, "ghost", func(c *Company) error { return nil })
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *CompanyStoreSuite) TestIssuers() {
	s.Require().NoError(s.store.Create(s.ctx, s.newCompany("acme")))
	issuerA := domain.NewIssuerID()
	issuerB := domain.NewIssuerID()

	s.Run("appends and lists issuers in order", func() {
		s.Require().NoError(s.store.AppendIssuer(s.ctx, "acme", issuerA, s.now))
		s.Require().NoError(s.store.AppendIssuer(s.ctx, "acme", issuerB, s.now))

		issuers, err := s.store.ListIssuers(s.ctx, "acme")
		s.Require().NoError(err)
		s.Equal([]domain.IssuerID{issuerA, issuerB}, issuers)
	})

	s.Run("returns ErrNotFound for unknown company", func() {
		s.Require().ErrorIs(s.store.AppendIssuer(s.ctx, "ghost", issuerA, s.now), sentinel.ErrNotFound)
		_, err := s.store.ListIssuers(s.ctx, "ghost")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
