package tasks

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, userID string, id int64) (*models.Task, error)
	List(ctx context.Context, userID string) ([]*models.Task, error)
	ListByCategoryAndPriority(ctx context.Context, userID string, categoryContains, priorityContains string) ([]*models.Task, error)
	ExistsByTitle(ctx context.Context, userID string, title string, excludeID int64) (bool, error)
	Replace(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID string, id int64) error
}
