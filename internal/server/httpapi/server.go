// Package httpapi exposes the REST surface of the to-do service: user
// registration and login plus owner-scoped category and task CRUD.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todoapi/internal/logging"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/dmitrijs2005/todoapi/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// UserService is the authentication surface the handlers depend on.
type UserService interface {
	Register(ctx context.Context, userName, email, password string) (*models.User, string, error)
	Login(ctx context.Context, userName, password string) (*models.User, error)
	IssueToken(ctx context.Context, userID string) (string, error)
	RevokeToken(ctx context.Context, key string) error
	UserByToken(ctx context.Context, key string) (*models.User, error)
}

// CategoryService is the category surface the handlers depend on.
type CategoryService interface {
	List(ctx context.Context, userID string) ([]*models.Category, error)
	Create(ctx context.Context, userID string, name string) (*models.Category, error)
}

// TaskService is the task surface the handlers depend on.
type TaskService interface {
	List(ctx context.Context, userID string, categoryFilter, priorityFilter string) ([]*models.Task, error)
	ListPriorities(ctx context.Context) ([]*models.Priority, error)
	Create(ctx context.Context, userID string, in *services.TaskInput) (*models.Task, error)
	Get(ctx context.Context, userID string, id int64) (*models.Task, error)
	Replace(ctx context.Context, userID string, id int64, in *services.TaskInput) (*models.Task, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// Server hosts the echo application.
type Server struct {
	address         string
	logger          logging.Logger
	users           UserService
	categories      CategoryService
	tasks           TaskService
	shutdownTimeout time.Duration
}

// NewServer constructs a Server listening on address once Run is called.
func NewServer(address string, l logging.Logger, us UserService, cs CategoryService, ts TaskService, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           us,
		categories:      cs,
		tasks:           ts,
		shutdownTimeout: shutdownTimeout,
	}
}

// newEcho assembles the echo instance with middleware and routes. Split
// from Run so tests can drive the router without a listener.
func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Info(c.Request().Context(), "request",
				"method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	e.GET("/ping/", s.ping)
	e.POST("/register/", s.register)
	e.POST("/login/", s.login, middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: s.basicAuthValidator,
	}))

	authed := e.Group("", s.tokenAuth)
	authed.POST("/logout/", s.logout)
	authed.GET("/categories/", s.listCategories)
	authed.POST("/categories/", s.createCategory)
	authed.GET("/priorities/", s.listPriorities)
	authed.GET("/tasks/", s.listTasks)
	authed.POST("/tasks/", s.createTask)
	authed.GET("/tasks/:id/", s.getTask)
	authed.PUT("/tasks/:id/", s.updateTask)
	authed.DELETE("/tasks/:id/", s.deleteTask)

	return e
}

// Run starts the HTTP server and shuts it down gracefully once ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	e := s.newEcho()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
