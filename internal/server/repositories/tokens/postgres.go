// Package tokens provides a PostgreSQL-backed repository for the opaque
// bearer tokens used in the authentication flow.
package tokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// PostgresRepository implements token CRUD over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new token key for userID.
func (r *PostgresRepository) Create(ctx context.Context, userID string, key string) error {
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, key, userID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find returns the token row for the given key string.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, key string) (*models.AuthToken, error) {
	query := `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE key = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, key))
}

// FindByUser returns the token owned by userID, or common.ErrorNotFound
// when none has been issued yet.
func (r *PostgresRepository) FindByUser(ctx context.Context, userID string) (*models.AuthToken, error) {
	query := `
		SELECT key, user_id, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

// Delete removes a token by its key string.
func (r *PostgresRepository) Delete(ctx context.Context, key string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE key = $1
	`
	if _, err := r.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.AuthToken, error) {
	token := &models.AuthToken{}
	if err := row.Scan(&token.Key, &token.UserID, &token.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}
