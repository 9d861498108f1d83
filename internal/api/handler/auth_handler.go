package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sprintdeck/board-system/internal/api/metrics"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

// AuthHandler handles POST /auth. Authentication is a plain password
// equality check against the stored account; there are no tokens and no
// server-side sessions.
type AuthHandler struct {
	repo ports.UserRepository
}

func NewAuthHandler(repo ports.UserRepository) *AuthHandler {
	return &AuthHandler{repo: repo}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and returns the account with the password
// stripped, or 401 on any mismatch.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.repo.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, toUserResponse(*user))
}
