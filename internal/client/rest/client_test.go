package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sprintdeck/board-system/internal/core/domain"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

// ---------------------------------------------------------------------------
// Fetch and projection
// ---------------------------------------------------------------------------

func TestFetchColumns_ProjectsNestedTasks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/columns" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"c1","title":"To Do","order":1,"tasks":[
				{"id":"t1","taskId":"PROJ-1","title":"First","priority":"high","order":0,
				 "columnId":"c1","sprintId":"sp1","assigneeId":"u1",
				 "startDate":"2026-02-01T00:00:00Z","dueDate":"2026-02-10",
				 "assignee":{"id":"u1","name":"Alice","email":"a@x.io","role":"admin"}}
			]},
			{"id":"c2","title":"Done","order":2,"tasks":[]}
		]`))
	})

	columns, err := client.FetchColumns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(columns))
	}

	card := columns[0].Cards[0]
	if card.ID != "t1" || card.TaskID != "PROJ-1" || card.ColumnID != "c1" {
		t.Errorf("card identity wrong: %+v", card)
	}
	if card.Assignee != "Alice" || card.AssigneeID != "u1" {
		t.Errorf("nested assignee must flatten to name and id, got %q/%q", card.Assignee, card.AssigneeID)
	}
	if card.StartDate != "2026-02-01" {
		t.Errorf("RFC 3339 start date must normalize to a bare date, got %q", card.StartDate)
	}
	if card.DueDate != "2026-02-10" {
		t.Errorf("bare due date must pass through, got %q", card.DueDate)
	}
	if card.Order == nil || *card.Order != 0 {
		t.Errorf("order 0 must survive as a set value, got %v", card.Order)
	}
	if len(columns[1].Cards) != 0 {
		t.Errorf("empty column must project to zero cards, got %d", len(columns[1].Cards))
	}
}

func TestFetchColumns_MissingOrderStaysNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"c1","title":"To Do","order":1,"tasks":[{"id":"t1","title":"X"}]}]`))
	})

	columns, err := client.FetchColumns(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if columns[0].Cards[0].Order != nil {
		t.Error("absent order must stay nil to distinguish it from order 0")
	}
}

// ---------------------------------------------------------------------------
// Error envelope
// ---------------------------------------------------------------------------

func TestDo_NonOKReturnsAPIErrorWithServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"column not found"}`))
	})

	err := client.DeleteColumn(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", apiErr.StatusCode)
	}
	if apiErr.Message != "column not found" {
		t.Errorf("message: got %q", apiErr.Message)
	}
	if err.Error() != "column not found" {
		t.Errorf("Error() must surface the server message, got %q", err.Error())
	}
}

func TestDo_NonJSONErrorBodyFallsBackToStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	err := client.DeleteColumn(context.Background(), "c1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Error() != "store returned status 502" {
		t.Errorf("fallback message wrong: %q", apiErr.Error())
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestPatchTask_SendsOnlySetFields(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/tasks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{}`))
	})

	order := 3
	columnID := "c2"
	err := client.PatchTask(context.Background(), "t1", ports.TaskUpdate{
		ColumnID: &columnID,
		Order:    &order,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["id"] != "t1" || got["columnId"] != "c2" || got["order"] != float64(3) {
		t.Errorf("payload wrong: %v", got)
	}
	for _, absent := range []string{"title", "description", "priority", "progress", "sprintId"} {
		if _, ok := got[absent]; ok {
			t.Errorf("unset field %q must not be sent", absent)
		}
	}
}

func TestCreateTask_OmitsEmptyOptionalFields(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"t9","title":"New"}`))
	})

	card, err := client.CreateTask(context.Background(), ports.CreateTaskInput{
		Title:    "New",
		Priority: "medium",
		ColumnID: "c1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.ID != "t9" {
		t.Errorf("created card id wrong: %q", card.ID)
	}

	if got["title"] != "New" || got["columnId"] != "c1" {
		t.Errorf("required fields missing from payload: %v", got)
	}
	for _, absent := range []string{"sprintId", "assigneeId", "storyPoints", "imageUrl"} {
		if _, ok := got[absent]; ok {
			t.Errorf("empty optional field %q must not be sent", absent)
		}
	}
}

func TestDeleteTask_UsesQueryParam(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	if err := client.DeleteTask(context.Background(), "t 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "id=t+1" {
		t.Errorf("id must be query-escaped, got %q", gotQuery)
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["email"] != "alice@example.com" || creds["password"] != "secret" {
			t.Errorf("credentials not forwarded: %v", creds)
		}
		_, _ = w.Write([]byte(`{"id":"u1","name":"Alice","email":"alice@example.com","role":"admin"}`))
	})

	user, err := client.Login(context.Background(), "alice@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || user.Role != domain.RoleAdmin {
		t.Errorf("user projection wrong: %+v", user)
	}
}

func TestLogin_UnauthorizedMapsToInvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid email or password"}`))
	})

	_, err := client.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("401 must map to ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_ServerErrorIsNotInvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
	})

	_, err := client.Login(context.Background(), "alice@example.com", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Error("a 500 must not look like bad credentials")
	}
}

// ---------------------------------------------------------------------------
// Sprints
// ---------------------------------------------------------------------------

func TestFetchSprints_NormalizesDates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"sp1","name":"Sprint 1","status":"active",
			"startDate":"2026-03-01T12:30:00Z","endDate":"2026-03-14","tasks":[]}]`))
	})

	sprints, err := client.FetchSprints(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := sprints[0]
	if s.StartDate != "2026-03-01" || s.EndDate != "2026-03-14" {
		t.Errorf("dates not normalized: %q / %q", s.StartDate, s.EndDate)
	}
	if s.Status != domain.SprintActive {
		t.Errorf("status wrong: %q", s.Status)
	}
}
