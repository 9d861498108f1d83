package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sprintdeck/board-system/internal/api/handler"
	"github.com/sprintdeck/board-system/internal/core/domain"
)

type stubColumnRepo struct {
	columns   []domain.Column
	created   []domain.Column
	deleted   []string
	deleteErr error
}

func (r *stubColumnRepo) List(_ context.Context) ([]domain.Column, error) {
	return append([]domain.Column(nil), r.columns...), nil
}

func (r *stubColumnRepo) Create(_ context.Context, title string, order int) (*domain.Column, error) {
	col := domain.Column{ID: "col_new", Title: title, Order: order, Cards: []domain.Card{}}
	r.created = append(r.created, col)
	return &col, nil
}

func (r *stubColumnRepo) Update(_ context.Context, id string, title *string, order *int) (*domain.Column, error) {
	for _, col := range r.columns {
		if col.ID == id {
			if title != nil {
				col.Title = *title
			}
			if order != nil {
				col.Order = *order
			}
			return &col, nil
		}
	}
	return nil, domain.ErrColumnNotFound
}

func (r *stubColumnRepo) Delete(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, id)
	return nil
}

func registerColumnRoutes(e *echo.Echo, repo *stubColumnRepo) {
	h := handler.NewColumnHandler(repo)
	e.GET("/columns", h.List)
	e.POST("/columns", h.Create)
	e.PUT("/columns", h.Update)
	e.DELETE("/columns", h.Delete)
}

func TestColumnHandler_List_NestsTasks(t *testing.T) {
	e := newTestServer()
	order := 0
	repo := &stubColumnRepo{columns: []domain.Column{
		{ID: "c1", Title: "To Do", Order: 1, Cards: []domain.Card{
			{ID: "t1", Title: "First", ColumnID: "c1", Priority: "high", AssigneeID: "u1", Assignee: "Alice", Order: &order},
		}},
	}}
	registerColumnRoutes(e, repo)

	req := httptest.NewRequest(http.MethodGet, "/columns", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	tasks, ok := resp[0]["tasks"].([]any)
	if !ok || len(tasks) != 1 {
		t.Fatalf("expected nested tasks, got %v", resp[0]["tasks"])
	}
	task := tasks[0].(map[string]any)
	assignee, ok := task["assignee"].(map[string]any)
	if !ok || assignee["name"] != "Alice" || assignee["id"] != "u1" {
		t.Errorf("assignee relation must nest id and name, got %v", task["assignee"])
	}
}

func TestColumnHandler_Create_Returns201(t *testing.T) {
	e := newTestServer()
	repo := &stubColumnRepo{}
	registerColumnRoutes(e, repo)

	req := httptest.NewRequest(http.MethodPost, "/columns", strings.NewReader(`{"title":"Review","order":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(repo.created) != 1 || repo.created[0].Title != "Review" || repo.created[0].Order != 3 {
		t.Errorf("create not forwarded to the repository: %+v", repo.created)
	}
}

func TestColumnHandler_Create_RequiresTitle(t *testing.T) {
	e := newTestServer()
	repo := &stubColumnRepo{}
	registerColumnRoutes(e, repo)

	req := httptest.NewRequest(http.MethodPost, "/columns", strings.NewReader(`{"order":3}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(repo.created) != 0 {
		t.Error("invalid payload must not reach the repository")
	}
}

func TestColumnHandler_Update_UnknownColumn(t *testing.T) {
	e := newTestServer()
	registerColumnRoutes(e, &stubColumnRepo{})

	req := httptest.NewRequest(http.MethodPut, "/columns", strings.NewReader(`{"id":"missing","title":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestColumnHandler_Delete_RequiresID(t *testing.T) {
	e := newTestServer()
	repo := &stubColumnRepo{}
	registerColumnRoutes(e, repo)

	req := httptest.NewRequest(http.MethodDelete, "/columns", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestColumnHandler_Delete_Success(t *testing.T) {
	e := newTestServer()
	repo := &stubColumnRepo{}
	registerColumnRoutes(e, repo)

	req := httptest.NewRequest(http.MethodDelete, "/columns?id=c1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "c1" {
		t.Errorf("delete not forwarded: %v", repo.deleted)
	}
}
