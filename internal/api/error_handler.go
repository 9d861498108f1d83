package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps each domain sentinel to its HTTP status and client-facing
// message. Errors outside this table are treated as unexpected.
var statusOf = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrColumnNotFound, http.StatusNotFound, "column not found"},
	{domain.ErrTaskNotFound, http.StatusNotFound, "task not found"},
	{domain.ErrSprintNotFound, http.StatusNotFound, "sprint not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid email or password"},
	{domain.ErrPermissionDenied, http.StatusForbidden, "permission denied"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// sentinels to deterministic status codes, logs unexpected errors without
// leaking their cause, and always renders the {"error": msg} envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Echo's own errors: bind failures, 404 from the router, handler
		// echo.NewHTTPError calls.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)})
			return
		}

		for _, entry := range statusOf {
			if errors.Is(err, entry.err) {
				_ = c.JSON(entry.code, errorResponse{Error: entry.msg})
				return
			}
		}

		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
		_ = c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
