package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sprintdeck/board-system/internal/core/ports"
)

// ColumnHandler handles HTTP requests for board columns.
type ColumnHandler struct {
	repo ports.ColumnRepository
}

func NewColumnHandler(repo ports.ColumnRepository) *ColumnHandler {
	return &ColumnHandler{repo: repo}
}

type createColumnRequest struct {
	Title string `json:"title" validate:"required"`
	Order int    `json:"order"`
}

type updateColumnRequest struct {
	ID    string  `json:"id" validate:"required"`
	Title *string `json:"title"`
	Order *int    `json:"order"`
}

// List handles GET /columns: every column in board order, tasks nested.
func (h *ColumnHandler) List(c echo.Context) error {
	columns, err := h.repo.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]columnResponse, len(columns))
	for i, col := range columns {
		resp[i] = toColumnResponse(col)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create handles POST /columns.
func (h *ColumnHandler) Create(c echo.Context) error {
	var req createColumnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	col, err := h.repo.Create(c.Request().Context(), req.Title, req.Order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toColumnResponse(*col))
}

// Update handles PUT /columns.
func (h *ColumnHandler) Update(c echo.Context) error {
	var req updateColumnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	col, err := h.repo.Update(c.Request().Context(), req.ID, req.Title, req.Order)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toColumnResponse(*col))
}

// Delete handles DELETE /columns?id=. Tasks in the column are removed with
// it.
func (h *ColumnHandler) Delete(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "column id is required")
	}

	if err := h.repo.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "column deleted"})
}
