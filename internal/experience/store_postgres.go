package experience

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"openbadges/pkg/domain"
	"openbadges/pkg/platform/sentinel"
)

// PostgresStore persists claims in PostgreSQL. IDs come from the sequence, so
// unlike the memory store they start at one; callers treat them as opaque.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed experience store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e *Experience) (domain.ExperienceID, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO experiences (title, level, category, company, user_identity, validated, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, e.Title, e.Level, e.Category, e.CompanyID.String(), e.UserID.String(), e.Validated, e.SubmittedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("append experience: %w", err)
	}
	return domain.ExperienceID(id), nil
}

func (s *PostgresStore) Find(ctx context.Context, id domain.ExperienceID) (*Experience, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, level, category, company, user_identity, validated, issuer_id, token_uri, submitted_at
		FROM experiences WHERE id = $1
	`, int64(id))
	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find experience: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Experience, error) {
	return s.query(ctx, `
		SELECT id, title, level, category, company, user_identity, validated, issuer_id, token_uri, submitted_at
		FROM experiences ORDER BY id
	`)
}

func (s *PostgresStore) ListByUser(ctx context.Context, user domain.Identity) ([]*Experience, error) {
	return s.query(ctx, `
		SELECT id, title, level, category, company, user_identity, validated, issuer_id, token_uri, submitted_at
		FROM experiences WHERE user_identity = $1 ORDER BY id
	`, user.String())
}

// Execute runs fn against the row under FOR UPDATE so concurrent validation
// attempts on the same claim serialize.
func (s *PostgresStore) Execute(ctx context.Context, id domain.ExperienceID, fn func(e *Experience) error) (*Experience, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT id, title, level, category, company, user_identity, validated, issuer_id, token_uri, submitted_at
		FROM experiences WHERE id = $1 FOR UPDATE
	`, int64(id))
	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock experience: %w", err)
	}

	if err := fn(e); err != nil {
		return nil, err
	}

	var issuerID any
	if e.IssuerID != nil {
		issuerID = uuid.UUID(*e.IssuerID)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE experiences SET validated = $2, issuer_id = $3, token_uri = $4 WHERE id = $1
	`, int64(id), e.Validated, issuerID, e.TokenURI)
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]*Experience, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	var out []*Experience
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperience(row rowScanner) (*Experience, error) {
	e := &Experience{}
	var id int64
	var company, user string
	var issuerID uuid.NullUUID
	err := row.Scan(&id, &e.Title, &e.Level, &e.Category, &company, &user,
		&e.Validated, &issuerID, &e.TokenURI, &e.SubmittedAt)
	if err != nil {
		return nil, err
	}
	e.ID = domain.ExperienceID(id)
	e.CompanyID = domain.Identity(company)
	e.UserID = domain.Identity(user)
	if issuerID.Valid {
		linked := domain.IssuerID(issuerID.UUID)
		e.IssuerID = &linked
	}
	return e, nil
}
