package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// PostgresStore persists profiles in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, profile *Profile) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (identity, uri, kind, organisation, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO NOTHING
	`, profile.Identity.String(), profile.URI, profile.Kind, profile.Organisation, profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, identity domain.Identity) (*Profile, error) {
	profile := &Profile{Identity: identity}
	err := s.db.QueryRowContext(ctx, `
		SELECT uri, kind, organisation, created_at FROM profiles WHERE identity = $1
	`, identity.String()).Scan(&profile.URI, &profile.Kind, &profile.Organisation, &profile.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if err := s.hydrate(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Profile, error) {
	return s.scan(ctx, `
		SELECT identity, uri, kind, organisation, created_at
		FROM profiles ORDER BY position
	`)
}

func (s *PostgresStore) ListOrganisations(ctx context.Context) ([]*Profile, error) {
	return s.scan(ctx, `
		SELECT identity, uri, kind, organisation, created_at
		FROM profiles WHERE organisation ORDER BY position
	`)
}

func (s *PostgresStore) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT identity FROM profiles ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity string
		if err := rows.Scan(&identity); err != nil {
			return nil, fmt.Errorf("scan identity: %w", err)
		}
		identities = append(identities, domain.Identity(identity))
	}
	return identities, rows.Err()
}

func (s *PostgresStore) AddMember(ctx context.Context, organisation, member domain.Identity, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organisation_members (organisation, member, added_at)
		VALUES ($1, $2, $3)
	`, organisation.String(), member.String(), now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code.Name() {
			case "unique_violation":
				return sentinel.ErrAlreadyUsed
			case "foreign_key_violation":
				return sentinel.ErrNotFound
			}
		}
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMembers(ctx context.Context, organisation domain.Identity) ([]domain.Identity, error) {
	if _, err := s.Find(ctx, organisation); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT member FROM organisation_members WHERE organisation = $1 ORDER BY added_at
	`, organisation.String())
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Identity
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, domain.Identity(member))
	}
	return members, rows.Err()
}

func (s *PostgresStore) AppendCredential(ctx context.Context, holder domain.Identity, issuerID domain.IssuerID, now time.Time) error {
	return s.appendRef(ctx, `
		INSERT INTO profile_credentials (identity, issuer_id, received_at) VALUES ($1, $2, $3)
	`, holder, issuerID, now)
}

func (s *PostgresStore) AppendBadgeCreated(ctx context.Context, creator domain.Identity, issuerID domain.IssuerID, now time.Time) error {
	return s.appendRef(ctx, `
		INSERT INTO profile_badges (identity, issuer_id, created_at) VALUES ($1, $2, $3)
	`, creator, issuerID, now)
}

func (s *PostgresStore) appendRef(ctx context.Context, query string, identity domain.Identity, issuerID domain.IssuerID, now time.Time) error {
	_, err := s.db.ExecContext(ctx, query, identity.String(), uuid.UUID(issuerID), now)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("append issuer reference: %w", err)
	}
	return nil
}

func (s *PostgresStore) scan(ctx context.Context, query string) ([]*Profile, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		profile := &Profile{}
		var identity string
		if err := rows.Scan(&identity, &profile.URI, &profile.Kind, &profile.Organisation, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profile.Identity = domain.Identity(identity)
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if err := s.hydrate(ctx, profile); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (s *PostgresStore) hydrate(ctx context.Context, profile *Profile) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT issuer_id FROM profile_credentials WHERE identity = $1 ORDER BY id
	`, profile.Identity.String())
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	profile.CredentialsReceived, err = scanIssuerIDs(rows)
	if err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT issuer_id FROM profile_badges WHERE identity = $1 ORDER BY id
	`, profile.Identity.String())
	if err != nil {
		return fmt.Errorf("load badges created: %w", err)
	}
	profile.BadgesCreated, err = scanIssuerIDs(rows)
	if err != nil {
		return err
	}

	members, err := s.listMembersUnchecked(ctx, profile.Identity)
	if err != nil {
		return err
	}
	profile.Members = members
	return nil
}

func (s *PostgresStore) listMembersUnchecked(ctx context.Context, organisation domain.Identity) ([]domain.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT member FROM organisation_members WHERE organisation = $1 ORDER BY added_at
	`, organisation.String())
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []domain.Identity
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, domain.Identity(member))
	}
	return members, rows.Err()
}

func scanIssuerIDs(rows *sql.Rows) ([]domain.IssuerID, error) {
	defer rows.Close()
	var ids []domain.IssuerID
	for rows.Next() {
		var raw uuid.UUID
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan issuer id: %w", err)
		}
		ids = append(ids, domain.IssuerID(raw))
	}
	return ids, rows.Err()
}
