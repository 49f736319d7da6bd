package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type categoryRequest struct {
	Name string `json:"name"`
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

func (r *taskRequest) toInput() *services.TaskInput {
	return &services.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Category:    r.Category,
		DueDate:     r.DueDate,
		Completed:   r.Completed,
	}
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "OK"})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Malformed request body."})
	}

	ctx := c.Request().Context()
	s.logger.Info(ctx, "Registration request")

	_, token, err := s.users.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return s.respondError(c, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return c.JSON(http.StatusCreated, tokenResponse{Token: token, Message: "User registered successfully"})
}

// login runs behind BasicAuth; by the time it is reached the credentials
// have been verified and the user is in the context.
func (s *Server) login(c echo.Context) error {
	user := currentUser(c)

	token, err := s.users.IssueToken(c.Request().Context(), user.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token, Message: "Logged in successfully"})
}

// logout revokes the token the request authenticated with.
func (s *Server) logout(c echo.Context) error {
	if err := s.users.RevokeToken(c.Request().Context(), currentTokenKey(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (s *Server) listPriorities(c echo.Context) error {
	priorities, err := s.tasks.ListPriorities(c.Request().Context())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newPriorityListResponse(priorities))
}

func (s *Server) listCategories(c echo.Context) error {
	user := currentUser(c)

	categories, err := s.categories.List(c.Request().Context(), user.ID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newCategoryListResponse(categories))
}

func (s *Server) createCategory(c echo.Context) error {
	user := currentUser(c)

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Malformed request body."})
	}

	category, err := s.categories.Create(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newCategoryResponse(category))
}

func (s *Server) listTasks(c echo.Context) error {
	user := currentUser(c)

	tasks, err := s.tasks.List(c.Request().Context(), user.ID,
		c.QueryParam("category"), c.QueryParam("priority"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskListResponse(tasks))
}

func (s *Server) createTask(c echo.Context) error {
	user := currentUser(c)

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Malformed request body."})
	}

	task, err := s.tasks.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (s *Server) getTask(c echo.Context) error {
	user := currentUser(c)

	id, err := taskID(c)
	if err != nil {
		return s.respondError(c, common.ErrorNotFound)
	}

	task, err := s.tasks.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

func (s *Server) updateTask(c echo.Context) error {
	user := currentUser(c)

	id, err := taskID(c)
	if err != nil {
		return s.respondError(c, common.ErrorNotFound)
	}

	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "Malformed request body."})
	}

	task, err := s.tasks.Replace(c.Request().Context(), user.ID, id, req.toInput())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTaskResponse(task))
}

func (s *Server) deleteTask(c echo.Context) error {
	user := currentUser(c)

	id, err := taskID(c)
	if err != nil {
		return s.respondError(c, common.ErrorNotFound)
	}

	if err := s.tasks.Delete(c.Request().Context(), user.ID, id); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Task has been deleted successfully."})
}

func taskID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// respondError maps domain errors onto the wire taxonomy: field-level
// validation problems are 400, unknown or unowned resources are 404
// (deliberately indistinguishable), auth failures are 401, everything
// else is a logged 500.
func (s *Server) respondError(c echo.Context, err error) error {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ve.Fields)
	case errors.Is(err, common.ErrorNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"detail": "Not found."})
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid token."})
	default:
		s.logger.Error(c.Request().Context(), err.Error())
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "Internal server error."})
	}
}
