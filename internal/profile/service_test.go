package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"openbadges/pkg/domain"
	dErrors "openbadges/pkg/domain-errors"
	"openbadges/pkg/requestcontext"
)

type fakeFactory struct {
	issuerID domain.IssuerID
	owner    domain.Identity
	title    string
	calls    int
}

func (f *fakeFactory) CreateBadge(_ context.Context, owner domain.Identity, title, _, _ string) (domain.IssuerID, error) {
	f.calls++
	f.owner = owner
	f.title = title
	return f.issuerID, nil
}

type ProfileServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	factory *fakeFactory
	service *Service
	ctx     context.Context
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.factory = &fakeFactory{issuerID: domain.NewIssuerID()}
	s.service = NewService(s.store, "registry-admin", WithFactory(s.factory))
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func (s *ProfileServiceSuite) createProfile(identity, kind string) {
	_, err := s.service.CreateProfile(s.ctx, domain.Identity(identity), "ipfs://profile", kind)
	s.Require().NoError(err)
}

func (s *ProfileServiceSuite) TestCreateProfile() {
	s.Run("creates an individual profile", func() {
		p, err := s.service.CreateProfile(s.ctx, "alice", "ipfs://alice", "individual")
		s.Require().NoError(err)
		s.False(p.Organisation)
		s.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), p.CreatedAt)
	})

	s.Run("derives the organisation flag from kind", func() {
		p, err := s.service.CreateProfile(s.ctx, "acme", "ipfs://acme", "Company")
		s.Require().NoError(err)
		s.True(p.Organisation)
	})

	s.Run("rejects a second profile for the same identity", func() {
		_, err := s.service.CreateProfile(s.ctx, "alice", "ipfs://again", "individual")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects an empty kind", func() {
		_, err := s.service.CreateProfile(s.ctx, "bob", "ipfs://bob", "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ProfileServiceSuite) TestGetProfile() {
	s.createProfile("alice", "individual")

	s.Run("reads an existing profile", func() {
		p, err := s.service.GetProfile(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(domain.Identity("alice"), p.Identity)
	})

	s.Run("missing profile maps to NotFound", func() {
		_, err := s.service.GetProfile(s.ctx, "nobody")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Profile does not exist", dErrors.MessageOf(err))
	})
}

func (s *ProfileServiceSuite) TestAddMember() {
	s.createProfile("acme", "company")
	s.createProfile("alice", "individual")

	s.Run("organisation admits a member", func() {
		s.Require().NoError(s.service.AddMember(s.ctx, "acme", "bob"))

		members, err := s.service.ListMembers(s.ctx, "acme")
		s.Require().NoError(err)
		s.Equal([]domain.Identity{"bob"}, members)
	})

	s.Run("duplicate admission maps to Conflict", func() {
		err := s.service.AddMember(s.ctx, "acme", "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("individual caller is Forbidden", func() {
		err := s.service.AddMember(s.ctx, "alice", "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal("Only organisations can call this func", dErrors.MessageOf(err))
	})

	s.Run("caller without a profile maps to NotFound", func() {
		err := s.service.AddMember(s.ctx, "ghost", "bob")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("Profile does not exist", dErrors.MessageOf(err))
	})

	s.Run("empty member identity is rejected", func() {
		err := s.service.AddMember(s.ctx, "acme", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ProfileServiceSuite) TestAddBadge() {
	s.createProfile("acme", "company")
	s.createProfile("alice", "individual")

	s.Run("organisation provisions a badge through the factory", func() {
		issuerID, err := s.service.AddBadge(s.ctx, "acme", "Go Mentor", "Mentored juniors", "ipfs://badge")
		s.Require().NoError(err)
		s.Equal(s.factory.issuerID, issuerID)
		s.Equal(domain.Identity("acme"), s.factory.owner)
		s.Equal("Go Mentor", s.factory.title)

		created, err := s.service.ListOwnBadges(s.ctx, "acme")
		s.Require().NoError(err)
		s.Equal([]domain.IssuerID{issuerID}, created)
	})

	s.Run("individual caller is Forbidden and the factory is not called", func() {
		calls := s.factory.calls
		_, err := s.service.AddBadge(s.ctx, "alice", "Nope", "", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		s.Equal(calls, s.factory.calls)
	})
}

func (s *ProfileServiceSuite) TestAddReceivedBadge() {
	s.createProfile("alice", "individual")
	issuerID := domain.NewIssuerID()

	s.Require().NoError(s.service.AddReceivedBadge(s.ctx, "alice", issuerID))
	s.Require().NoError(s.service.AddReceivedBadge(s.ctx, "alice", issuerID))

	p, err := s.service.GetProfile(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]domain.IssuerID{issuerID, issuerID}, p.CredentialsReceived)
}

func (s *ProfileServiceSuite) TestOwner() {
	s.Equal(domain.Identity("registry-admin"), s.service.Owner())
}
