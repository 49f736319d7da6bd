// Package tasks provides the PostgreSQL-backed repository for per-user
// tasks. Every read and write carries an explicit owner predicate, which
// is the sole isolation mechanism between users.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns reads a task row together with its resolved priority and
// category names.
const selectColumns = `
		SELECT t.id, t.user_id, t.title, t.description,
		       t.priority_id, t.category_id, p.name, c.name,
		       t.due_date, t.completed
		FROM tasks t
		LEFT JOIN priorities p ON p.id = t.priority_id
		LEFT JOIN categories c ON c.id = t.category_id
`

// Create inserts a task. A (user_id, title) collision surfaces as
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, priority_id, category_id, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description,
		task.PriorityID, task.CategoryID, task.DueDate, task.Completed).Scan(&task.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// GetByID returns the task with the given id if it is owned by userID.
// A task that does not exist and a task owned by someone else are both
// common.ErrorNotFound.
func (r *PostgresRepository) GetByID(ctx context.Context, userID string, id int64) (*models.Task, error) {
	query := selectColumns + `
		WHERE t.user_id = $1 AND t.id = $2
	`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.PriorityID, &task.CategoryID, &task.Priority, &task.Category,
		&task.DueDate, &task.Completed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// List returns all tasks owned by userID in insertion order.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Task, error) {
	query := selectColumns + `
		WHERE t.user_id = $1
		ORDER BY t.id
	`
	return r.queryMany(ctx, query, userID)
}

// ListByCategoryAndPriority returns tasks owned by userID whose category
// name contains categoryContains and whose priority name contains
// priorityContains, both matched case-insensitively. The filter values are
// literal substrings, not patterns.
func (r *PostgresRepository) ListByCategoryAndPriority(ctx context.Context, userID string, categoryContains, priorityContains string) ([]*models.Task, error) {
	query := selectColumns + `
		WHERE t.user_id = $1
		  AND c.name ILIKE '%' || $2 || '%' ESCAPE '\'
		  AND p.name ILIKE '%' || $3 || '%' ESCAPE '\'
		ORDER BY t.id
	`
	return r.queryMany(ctx, query, userID, escapeLike(categoryContains), escapeLike(priorityContains))
}

// escapeLike neutralizes the LIKE metacharacters in s so it binds as a
// literal substring.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ExistsByTitle reports whether userID already owns a task with the given
// title. excludeID skips one row, so replacements do not collide with
// themselves; pass 0 on create.
func (r *PostgresRepository) ExistsByTitle(ctx context.Context, userID string, title string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tasks
			WHERE user_id = $1 AND title = $2 AND id <> $3
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, title, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Replace overwrites every mutable field of the task identified by
// (task.UserID, task.ID). No matching row yields common.ErrorNotFound.
func (r *PostgresRepository) Replace(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, priority_id = $5, category_id = $6,
		    due_date = $7, completed = $8
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		task.UserID, task.ID, task.Title, task.Description,
		task.PriorityID, task.CategoryID, task.DueDate, task.Completed)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireOneRow(res)
}

// Delete removes the task identified by (userID, id). No matching row
// yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, userID string, id int64) error {
	query := `
		DELETE FROM tasks
		WHERE user_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return r.requireOneRow(res)
}

func (r *PostgresRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.PriorityID, &task.CategoryID, &task.Priority, &task.Category,
			&task.DueDate, &task.Completed,
		); err != nil {
			return nil, err
		}
		result = append(result, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
