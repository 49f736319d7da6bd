package categories

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID string) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	GetByName(ctx context.Context, userID string, name string) (*models.Category, error)
}
