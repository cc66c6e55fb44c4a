package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mzarins/filedepot/internal/server/auth"
	"github.com/mzarins/filedepot/internal/server/models"
)

const userContextKey = "filedepot.user"

// requireIdentity validates the bearer token and resolves the caller to a
// ledger user, creating it on first login. The resolved user is stored in
// the request context for handlers.
func (s *Server) requireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)

		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		identity, err := auth.IdentityFromToken(strings.TrimPrefix(header, prefix), s.jwtSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		user, err := s.users.GetOrCreate(c.Request().Context(), identity.Key, identity.Email, identity.Name)
		if err != nil {
			return s.writeError(c, err)
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
