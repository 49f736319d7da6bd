// Package priorities provides read access to the shared priority labels.
package priorities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByName returns the priority with the given label, matched
// case-insensitively. Unknown labels yield common.ErrorNotFound.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Priority, error) {
	query := `
		SELECT id, name FROM priorities
		WHERE lower(name) = lower($1)
	`
	p := &models.Priority{}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// List returns all priority labels in id order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Priority, error) {
	query := `
		SELECT id, name FROM priorities
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Priority
	for rows.Next() {
		var p models.Priority
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
