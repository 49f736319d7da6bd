package httpapi

import (
	"time"

	"github.com/dmitrijs2005/todoapi/internal/server/models"
)

// Fixed output projections: each entity is re-shaped into an explicit
// response struct with a fixed field list.

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type priorityResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

func newCategoryResponse(c *models.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func newCategoryListResponse(categories []*models.Category) []categoryResponse {
	result := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, newCategoryResponse(c))
	}
	return result
}

func newPriorityListResponse(priorities []*models.Priority) []priorityResponse {
	result := make([]priorityResponse, 0, len(priorities))
	for _, p := range priorities {
		result = append(result, priorityResponse{ID: p.ID, Name: p.Name})
	}
	return result
}

func newTaskResponse(t *models.Task) taskResponse {
	r := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	if t.Priority.Valid {
		r.Priority = &t.Priority.String
	}
	if t.Category.Valid {
		r.Category = &t.Category.String
	}
	if t.DueDate.Valid {
		due := t.DueDate.Time
		r.DueDate = &due
	}
	return r
}

func newTaskListResponse(tasks []*models.Task) []taskResponse {
	result := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, newTaskResponse(t))
	}
	return result
}
