package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sprintdeck/board-system/internal/api"
	"github.com/sprintdeck/board-system/internal/api/handler"
	"github.com/sprintdeck/board-system/internal/core/domain"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

// newTestServer wires an echo instance the way the router does: validator
// plus the centralized error handler, so handler errors map to real status
// codes.
func newTestServer() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

type stubUserRepo struct {
	users   []domain.User
	authFn  func(email, password string) (*domain.User, error)
	created []ports.CreateUserInput
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.users...), nil
}

func (r *stubUserRepo) Create(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	r.created = append(r.created, in)
	return &domain.User{ID: "u_new", Name: in.Name, Email: in.Email, Role: in.Role}, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, update ports.UserUpdate) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	return nil
}

func (r *stubUserRepo) Authenticate(_ context.Context, email, password string) (*domain.User, error) {
	return r.authFn(email, password)
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestServer()
	repo := &stubUserRepo{authFn: func(email, password string) (*domain.User, error) {
		if email != "alice@example.com" || password != "secret" {
			t.Fatalf("unexpected credentials: %s %s", email, password)
		}
		return &domain.User{ID: "u1", Name: "Alice", Email: email, Role: domain.RoleAdmin}, nil
	}}
	e.POST("/auth", handler.NewAuthHandler(repo).Login)

	body := strings.NewReader(`{"email":"alice@example.com","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u1" || resp["role"] != "admin" {
		t.Errorf("unexpected user payload: %v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Error("password must never appear in a response")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestServer()
	repo := &stubUserRepo{authFn: func(email, password string) (*domain.User, error) {
		return nil, domain.ErrInvalidCredentials
	}}
	e.POST("/auth", handler.NewAuthHandler(repo).Login)

	body := strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["error"] == "" {
		t.Error("error envelope must carry a message")
	}
}

func TestAuthHandler_Login_MissingEmail(t *testing.T) {
	e := newTestServer()
	repo := &stubUserRepo{authFn: func(email, password string) (*domain.User, error) {
		t.Fatal("repository must not be reached on a validation failure")
		return nil, nil
	}}
	e.POST("/auth", handler.NewAuthHandler(repo).Login)

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_MalformedPayload(t *testing.T) {
	e := newTestServer()
	repo := &stubUserRepo{authFn: func(email, password string) (*domain.User, error) {
		t.Fatal("repository must not be reached")
		return nil, nil
	}}
	e.POST("/auth", handler.NewAuthHandler(repo).Login)

	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
