package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/repomanager"
)

const maxTaskTitleLength = 100

// TaskInput carries the client-supplied fields for creating or fully
// replacing a task. Priority and Category reference existing records by
// name; empty strings mean "unset".
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	Category    string
	DueDate     *time.Time
	Completed   bool
}

// TaskService implements the owner-scoped task operations.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// List returns tasks owned by userID. Filtering is all-or-nothing: only
// when both categoryFilter and priorityFilter are non-empty is the list
// narrowed to tasks whose category name contains categoryFilter and whose
// priority contains priorityFilter (case-insensitively); a single filter
// on its own is ignored.
func (s *TaskService) List(ctx context.Context, userID string, categoryFilter, priorityFilter string) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	var result []*models.Task
	var err error
	if categoryFilter != "" && priorityFilter != "" {
		result, err = repo.ListByCategoryAndPriority(ctx, userID, categoryFilter, priorityFilter)
	} else {
		result, err = repo.List(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return result, nil
}

// ListPriorities returns the shared priority labels in id order. Unlike
// categories they are not owned by anyone.
func (s *TaskService) ListPriorities(ctx context.Context) ([]*models.Priority, error) {
	result, err := s.repomanager.Priorities(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing priorities: %w", err)
	}
	return result, nil
}

// Create validates in against userID's scope and persists a new task.
func (s *TaskService) Create(ctx context.Context, userID string, in *TaskInput) (*models.Task, error) {
	task, err := s.buildTask(ctx, userID, 0, in)
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("title", "task with this title already exists.")
		}
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Get returns the task only when it is owned by userID; otherwise
// common.ErrorNotFound, indistinguishable from a missing id.
func (s *TaskService) Get(ctx context.Context, userID string, id int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).GetByID(ctx, userID, id)
}

// Replace overwrites every field of the task with in (full replacement,
// not a patch). Ownership is checked first, so an unowned id is a 404
// before any validation runs.
func (s *TaskService) Replace(ctx context.Context, userID string, id int64, in *TaskInput) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	if _, err := repo.GetByID(ctx, userID, id); err != nil {
		return nil, err
	}

	task, err := s.buildTask(ctx, userID, id, in)
	if err != nil {
		return nil, err
	}
	task.ID = id

	if err := repo.Replace(ctx, task); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.NewValidationError("title", "task with this title already exists.")
		}
		return nil, err
	}
	return task, nil
}

// Delete removes the task under the same ownership rule as Get.
func (s *TaskService) Delete(ctx context.Context, userID string, id int64) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, userID, id)
}

// buildTask validates in within userID's scope and assembles the record,
// resolving category and priority names to their ids. excludeID exempts
// the task itself from the duplicate-title check on replacement.
func (s *TaskService) buildTask(ctx context.Context, userID string, excludeID int64, in *TaskInput) (*models.Task, error) {
	ve := &common.ValidationError{}

	switch {
	case in.Title == "":
		ve.Add("title", "This field is required.")
	case len(in.Title) > maxTaskTitleLength:
		ve.Add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", maxTaskTitleLength))
	default:
		exists, err := s.repomanager.Tasks(s.db).ExistsByTitle(ctx, userID, in.Title, excludeID)
		if err != nil {
			return nil, fmt.Errorf("error checking title: %w", err)
		}
		if exists {
			ve.Add("title", "task with this title already exists.")
		}
	}

	task := &models.Task{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
	}
	if in.DueDate != nil {
		task.DueDate = sql.NullTime{Time: *in.DueDate, Valid: true}
	}

	if in.Category != "" {
		category, err := s.repomanager.Categories(s.db).GetByName(ctx, userID, in.Category)
		switch {
		case err == nil:
			task.CategoryID = sql.NullInt64{Int64: category.ID, Valid: true}
			task.Category = sql.NullString{String: category.Name, Valid: true}
		case errors.Is(err, common.ErrorNotFound):
			ve.Add("category", "category does not exist")
		default:
			return nil, fmt.Errorf("error resolving category: %w", err)
		}
	}

	if in.Priority != "" {
		priority, err := s.repomanager.Priorities(s.db).GetByName(ctx, in.Priority)
		switch {
		case err == nil:
			task.PriorityID = sql.NullInt64{Int64: priority.ID, Valid: true}
			task.Priority = sql.NullString{String: priority.Name, Valid: true}
		case errors.Is(err, common.ErrorNotFound):
			ve.Add("priority", "priority does not exist")
		default:
			return nil, fmt.Errorf("error resolving priority: %w", err)
		}
	}

	if !ve.Empty() {
		return nil, ve
	}
	return task, nil
}
