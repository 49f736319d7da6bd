// Package categories provides the PostgreSQL-backed repository for
// per-user task categories.
package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// PostgresRepository implements category storage over a dbx.DBTX
// (*sql.DB or *sql.Tx). Every query is scoped by the owner id.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all categories owned by userID in insertion order.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Category, error) {
	query := `
		SELECT id, user_id, name FROM categories
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a category. A name collision within the owner, in any
// case variant, surfaces as common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, category.UserID, category.Name).Scan(&category.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return category, nil
}

// GetByName returns the category with the given name owned by userID,
// matched case-insensitively, or common.ErrorNotFound.
func (r *PostgresRepository) GetByName(ctx context.Context, userID string, name string) (*models.Category, error) {
	query := `
		SELECT id, user_id, name FROM categories
		WHERE user_id = $1 AND lower(name) = lower($2)
	`
	c := &models.Category{}
	if err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&c.ID, &c.UserID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}
