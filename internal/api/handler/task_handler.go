package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sprintdeck/board-system/internal/api/metrics"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

// TaskHandler handles HTTP requests for tasks. PUT and PATCH share the same
// partial-update semantics; PATCH is the verb the board's move reconciliation
// uses for columnId/order updates.
type TaskHandler struct {
	repo ports.TaskRepository
}

func NewTaskHandler(repo ports.TaskRepository) *TaskHandler {
	return &TaskHandler{repo: repo}
}

type createTaskRequest struct {
	TaskID       string `json:"taskId"`
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description"`
	Priority     string `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	StoryPoints  int    `json:"storyPoints"`
	Progress     int    `json:"progress" validate:"gte=0,lte=100"`
	TimeEstimate string `json:"timeEstimate"`
	Module       string `json:"module"`
	Target       string `json:"target"`
	ImageURL     string `json:"imageUrl"`
	StartDate    string `json:"startDate"`
	DueDate      string `json:"dueDate"`
	ColumnID     string `json:"columnId" validate:"required"`
	SprintID     string `json:"sprintId"`
	AssigneeID   string `json:"assigneeId"`
}

type updateTaskRequest struct {
	ID           string  `json:"id" validate:"required"`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=critical high medium low"`
	StoryPoints  *int    `json:"storyPoints"`
	Progress     *int    `json:"progress" validate:"omitempty,gte=0,lte=100"`
	TimeEstimate *string `json:"timeEstimate"`
	Module       *string `json:"module"`
	Target       *string `json:"target"`
	ImageURL     *string `json:"imageUrl"`
	AssigneeID   *string `json:"assigneeId"`
	SprintID     *string `json:"sprintId"`
	ColumnID     *string `json:"columnId"`
	Order        *int    `json:"order"`
	StartDate    *string `json:"startDate"`
	DueDate      *string `json:"dueDate"`
}

func (r updateTaskRequest) toUpdate() ports.TaskUpdate {
	return ports.TaskUpdate{
		Title:        r.Title,
		Description:  r.Description,
		Priority:     r.Priority,
		StoryPoints:  r.StoryPoints,
		Progress:     r.Progress,
		TimeEstimate: r.TimeEstimate,
		Module:       r.Module,
		Target:       r.Target,
		ImageURL:     r.ImageURL,
		AssigneeID:   r.AssigneeID,
		SprintID:     r.SprintID,
		ColumnID:     r.ColumnID,
		Order:        r.Order,
		StartDate:    r.StartDate,
		DueDate:      r.DueDate,
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(c echo.Context) error {
	cards, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}
	resp := make([]taskResponse, len(cards))
	for i, card := range cards {
		resp[i] = toTaskResponse(card)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	card, err := h.repo.Create(c.Request().Context(), ports.CreateTaskInput{
		TaskID:       req.TaskID,
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		StoryPoints:  req.StoryPoints,
		Progress:     req.Progress,
		TimeEstimate: req.TimeEstimate,
		Module:       req.Module,
		Target:       req.Target,
		ImageURL:     req.ImageURL,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		ColumnID:     req.ColumnID,
		SprintID:     req.SprintID,
		AssigneeID:   req.AssigneeID,
	})
	if err != nil {
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(card.Priority).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(*card))
}

// Update handles PUT /tasks.
func (h *TaskHandler) Update(c echo.Context) error {
	return h.applyUpdate(c)
}

// Patch handles PATCH /tasks, the partial update used by card moves.
func (h *TaskHandler) Patch(c echo.Context) error {
	return h.applyUpdate(c)
}

func (h *TaskHandler) applyUpdate(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	card, err := h.repo.Update(c.Request().Context(), req.ID, req.toUpdate())
	if err != nil {
		return err
	}

	if req.ColumnID != nil {
		metrics.TasksMovedTotal.WithLabelValues("transfer").Inc()
	} else if req.Order != nil {
		metrics.TasksMovedTotal.WithLabelValues("reposition").Inc()
	}
	return c.JSON(http.StatusOK, toTaskResponse(*card))
}

// Delete handles DELETE /tasks?id=.
func (h *TaskHandler) Delete(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "task deleted"})
}
