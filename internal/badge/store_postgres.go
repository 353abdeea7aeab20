package badge

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

// PostgresStore persists issuers and token ledgers in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed issuer store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, issuer *Issuer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issuers (id, owner, title, description, uri, category, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(issuer.ID), issuer.Owner.String(), issuer.Class.Title, issuer.Class.Description,
		issuer.Class.URI, issuer.Class.Category, issuer.Class.Level, issuer.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create issuer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, id domain.IssuerID) (*Issuer, error) {
	issuer := &Issuer{ID: id}
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT owner, title, description, uri, category, level, created_at
		FROM issuers WHERE id = $1
	`, uuid.UUID(id)).Scan(&owner, &issuer.Class.Title, &issuer.Class.Description,
		&issuer.Class.URI, &issuer.Class.Category, &issuer.Class.Level, &issuer.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find issuer: %w", err)
	}
	issuer.Owner = domain.Identity(owner)
	return issuer, nil
}

// Mint allocates the next token id inside a transaction so concurrent
// deliveries on one issuer never collide.
func (s *PostgresStore) Mint(ctx context.Context, id domain.IssuerID, owner domain.Identity, uri string, now time.Time) (*Token, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin mint: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var locked uuid.UUID
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM issuers WHERE id = $1 FOR UPDATE`,
		uuid.UUID(id)).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("lock issuer: %w", err)
	}

	var tokenID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO tokens (issuer_id, token_id, owner, uri, issued_at)
		SELECT $1, COALESCE(MAX(token_id) + 1, 0), $2, $3, $4 FROM tokens WHERE issuer_id = $1
		RETURNING token_id
	`, uuid.UUID(id), owner.String(), uri, now).Scan(&tokenID)
	if err != nil {
		return nil, fmt.Errorf("mint token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit mint: %w", err)
	}
	return &Token{IssuerID: id, TokenID: domain.TokenID(tokenID), Owner: owner, URI: uri, IssuedAt: now}, nil
}

func (s *PostgresStore) Token(ctx context.Context, id domain.IssuerID, tokenID domain.TokenID) (*Token, error) {
	token := &Token{IssuerID: id, TokenID: tokenID}
	var owner string
	err := s.db.QueryRowContext(ctx, `
		SELECT owner, uri, issued_at FROM tokens WHERE issuer_id = $1 AND token_id = $2
	`, uuid.UUID(id), int64(tokenID)).Scan(&owner, &token.URI, &token.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	token.Owner = domain.Identity(owner)
	return token, nil
}

func (s *PostgresStore) Balance(ctx context.Context, id domain.IssuerID, holder domain.Identity) (int64, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM issuers WHERE id = $1)`,
		uuid.UUID(id)).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check issuer: %w", err)
	}
	if !exists {
		return 0, sentinel.ErrNotFound
	}

	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tokens WHERE issuer_id = $1 AND owner = $2
	`, uuid.UUID(id), holder.String()).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("count balance: %w", err)
	}
	return balance, nil
}
