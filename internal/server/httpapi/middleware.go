package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/todoapi/internal/common"
	"github.com/dmitrijs2005/todoapi/internal/server/models"
	"github.com/labstack/echo/v4"
)

const (
	userContextKey  = "authenticated_user"
	tokenContextKey = "authenticated_token"
)

// tokenAuth authenticates requests carrying "Authorization: Token <key>"
// and stores the resolved user in the request context.
func (s *Server) tokenAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(common.AuthHeaderName)
		if header == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Authentication credentials were not provided."})
		}

		scheme, key, found := strings.Cut(header, " ")
		if !found || scheme != common.AuthSchemeToken || key == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid token."})
		}

		user, err := s.users.UserByToken(c.Request().Context(), key)
		if err != nil {
			if errors.Is(err, common.ErrInvalidToken) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid token."})
			}
			return s.respondError(c, err)
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, key)
		return next(c)
	}
}

// basicAuthValidator backs the BasicAuth middleware on the login route.
// On success the user is stored in the request context for the handler.
func (s *Server) basicAuthValidator(userName, password string, c echo.Context) (bool, error) {
	user, err := s.users.Login(c.Request().Context(), userName, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return false, nil
		}
		return false, err
	}
	c.Set(userContextKey, user)
	return true, nil
}

// currentUser returns the user placed in the context by tokenAuth or the
// basic-auth validator.
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}

// currentTokenKey returns the token key the request authenticated with.
// Empty on routes behind basic auth.
func currentTokenKey(c echo.Context) string {
	key, _ := c.Get(tokenContextKey).(string)
	return key
}
