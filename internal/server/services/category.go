package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
)

const maxCategoryNameLength = 50

// CategoryService implements listing and creation of per-user categories.
type CategoryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(db *sql.DB, m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{db: db, repomanager: m}
}

// List returns every category owned by userID in insertion order.
func (s *CategoryService) List(ctx context.Context, userID string) ([]*models.Category, error) {
	result, err := s.repomanager.Categories(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return result, nil
}

// Create persists a category owned by userID. A name already used by the
// same user is a *common.ValidationError; other users' names do not
// collide.
func (s *CategoryService) Create(ctx context.Context, userID string, name string) (*models.Category, error) {
	repo := s.repomanager.Categories(s.db)

	ve := &common.ValidationError{}
	switch {
	case name == "":
		ve.Add("name", "This field is required.")
	case len(name) > maxCategoryNameLength:
		ve.Add("name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxCategoryNameLength))
	default:
		if _, err := repo.GetByName(ctx, userID, name); err == nil {
			ve.Add("name", "category with this name already exists.")
		} else if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error checking category name: %w", err)
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	category, err := repo.Create(ctx, &models.Category{UserID: userID, Name: name})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			// Concurrent duplicate slipped past the pre-check; the unique
			// index reports it instead.
			return nil, common.NewValidationError("name", "category with this name already exists.")
		}
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return category, nil
}
