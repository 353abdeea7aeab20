package company

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

// PostgresStore persists companies in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed company store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *Company) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (identity, name, did_uri, status, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity) DO NOTHING
	`, c.Identity.String(), c.Name, c.DidURI, string(c.Status), c.SubmittedAt)
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, identity domain.Identity) (*Company, error) {
	c, err := s.findIn(ctx, s.db, identity)
	if err != nil {
		return nil, err
	}
	c.Issuers, err = s.listIssuersUnchecked(ctx, identity)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) findIn(ctx context.Context, q querier, identity domain.Identity) (*Company, error) {
	c := &Company{Identity: identity}
	var status string
	err := q.QueryRowContext(ctx, `
		SELECT name, did_uri, status, submitted_at FROM companies WHERE identity = $1
	`, identity.String()).Scan(&c.Name, &c.DidURI, &status, &c.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	c.Status = Status(status)
	return c, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Company, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT identity, name, did_uri, status, submitted_at
		FROM companies ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []*Company
	for rows.Next() {
		c := &Company{}
		var identity, status string
		if err := rows.Scan(&identity, &c.Name, &c.DidURI, &status, &c.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.Identity = domain.Identity(identity)
		c.Status = Status(status)
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, c := range companies {
		c.Issuers, err = s.listIssuersUnchecked(ctx, c.Identity)
		if err != nil {
			return nil, err
		}
	}
	return companies, nil
}

// Execute runs fn against the row under FOR UPDATE so concurrent mutations of
// the same company serialize.
func (s *PostgresStore) Execute(ctx context.Context, identity domain.Identity, fn func(c *Company) error) (*Company, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	c := &Company{Identity: identity}
	var status string
	err = tx.QueryRowContext(ctx, `
		SELECT name, did_uri, status, submitted_at
		FROM companies WHERE identity = $1 FOR UPDATE
	`, identity.String()).Scan(&c.Name, &c.DidURI, &status, &c.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock company: %w", err)
	}
	c.Status = Status(status)

	if err := fn(c); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE companies SET name = $2, did_uri = $3, status = $4 WHERE identity = $1
	`, identity.String(), c.Name, c.DidURI, string(c.Status))
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	c.Issuers, err = s.listIssuersUnchecked(ctx, identity)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PostgresStore) AppendIssuer(ctx context.Context, identity domain.Identity, issuerID domain.IssuerID, _ time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company_issuers (company, issuer_id) VALUES ($1, $2)
	`, identity.String(), uuid.UUID(issuerID))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("append issuer: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListIssuers(ctx context.Context, identity domain.Identity) ([]domain.IssuerID, error) {
	if _, err := s.findIn(ctx, s.db, identity); err != nil {
		return nil, err
	}
	return s.listIssuersUnchecked(ctx, identity)
}

func (s *PostgresStore) listIssuersUnchecked(ctx context.Context, identity domain.Identity) ([]domain.IssuerID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT issuer_id FROM company_issuers WHERE company = $1 ORDER BY id
	`, identity.String())
	if err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
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
