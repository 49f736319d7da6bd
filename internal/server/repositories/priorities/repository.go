package priorities

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

type Repository interface {
	GetByName(ctx context.Context, name string) (*models.Priority, error)
	List(ctx context.Context) ([]*models.Priority, error)
}
