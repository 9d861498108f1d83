package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sprintdeck/board-system/internal/api/metrics"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

// SprintHandler handles HTTP requests for sprints.
type SprintHandler struct {
	repo ports.SprintRepository
}

func NewSprintHandler(repo ports.SprintRepository) *SprintHandler {
	return &SprintHandler{repo: repo}
}

type createSprintRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Status      string `json:"status" validate:"omitempty,oneof=planned active completed"`
}

type updateSprintRequest struct {
	ID          string  `json:"id" validate:"required"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *string `json:"status" validate:"omitempty,oneof=planned active completed"`
}

// normalizeSprintDate reduces incoming date values to YYYY-MM-DD before
// persisting, accepting either a bare date or a full timestamp.
func normalizeSprintDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return t.UTC().Format("2006-01-02"), nil
}

// List handles GET /sprints: every sprint with its aggregated tasks nested.
func (h *SprintHandler) List(c echo.Context) error {
	sprints, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]sprintResponse, len(sprints))
	for i, s := range sprints {
		resp[i] = toSprintResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /sprints.
func (h *SprintHandler) Create(c echo.Context) error {
	var req createSprintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start, err := normalizeSprintDate(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
	}
	end, err := normalizeSprintDate(req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
	}

	sprint, err := h.repo.Create(c.Request().Context(), ports.SprintInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}

	metrics.SprintsCreatedTotal.WithLabelValues(string(sprint.Status)).Inc()
	return c.JSON(http.StatusCreated, toSprintResponse(*sprint))
}

// Update handles PUT /sprints.
func (h *SprintHandler) Update(c echo.Context) error {
	var req updateSprintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.SprintUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.StartDate != nil {
		start, err := normalizeSprintDate(*req.StartDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
		}
		update.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := normalizeSprintDate(*req.EndDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
		}
		update.EndDate = &end
	}

	sprint, err := h.repo.Update(c.Request().Context(), req.ID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSprintResponse(*sprint))
}

// Delete handles DELETE /sprints?id=. Tasks referencing the sprint are
// detached, not deleted.
func (h *SprintHandler) Delete(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "sprint id is required")
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "sprint deleted"})
}
