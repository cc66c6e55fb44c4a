package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mzarins/filedepot/internal/common"
)

// statusFor maps the error taxonomy to transport codes. Ownership failures
// are deliberately reported as not found.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrNotAuthorized):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrInvalidState):
		return http.StatusConflict, "invalid state"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *Server) writeError(c echo.Context, err error) error {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), err.Error())
	}
	return c.JSON(status, map[string]string{"error": message})
}
