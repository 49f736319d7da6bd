package tokens

import (
	"context"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID string, key string) error
	Find(ctx context.Context, key string) (*models.AuthToken, error)
	FindByUser(ctx context.Context, userID string) (*models.AuthToken, error)
	Delete(ctx context.Context, key string) error
}
