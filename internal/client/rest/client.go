package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sprintdeck/board-system/internal/core/domain"
	"github.com/sprintdeck/board-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// APIError carries the store's error envelope for a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("store returned status %d", e.StatusCode)
}

// Client implements ports.RemoteStore over the board's JSON CRUD API. Each
// method is exactly one round trip; there are no retries and no caching.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client for the store at baseURL. timeout <= 0 selects
// the default transport timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do sends one JSON request and decodes the response into out (skipped when
// out is nil). Non-2xx responses are returned as *APIError with the server's
// error message when one is present.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- Columns ----------------------------------------------------------------

func (c *Client) FetchColumns(ctx context.Context) ([]domain.Column, error) {
	var wire []wireColumn
	if err := c.do(ctx, http.MethodGet, "/columns", nil, &wire); err != nil {
		return nil, err
	}
	columns := make([]domain.Column, len(wire))
	for i, w := range wire {
		columns[i] = w.toColumn()
	}
	return columns, nil
}

func (c *Client) CreateColumn(ctx context.Context, title string, order int) (*domain.Column, error) {
	body := map[string]any{"title": title, "order": order}
	var wire wireColumn
	if err := c.do(ctx, http.MethodPost, "/columns", body, &wire); err != nil {
		return nil, err
	}
	col := wire.toColumn()
	return &col, nil
}

func (c *Client) UpdateColumn(ctx context.Context, id, title string) error {
	return c.do(ctx, http.MethodPut, "/columns", map[string]any{"id": id, "title": title}, nil)
}

func (c *Client) DeleteColumn(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/columns?id="+url.QueryEscape(id), nil, nil)
}

// --- Tasks ------------------------------------------------------------------

func (c *Client) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*domain.Card, error) {
	body := map[string]any{
		"title":       in.Title,
		"description": in.Description,
		"priority":    in.Priority,
		"columnId":    in.ColumnID,
	}
	if in.TaskID != "" {
		body["taskId"] = in.TaskID
	}
	if in.StoryPoints != 0 {
		body["storyPoints"] = in.StoryPoints
	}
	if in.Progress != 0 {
		body["progress"] = in.Progress
	}
	if in.TimeEstimate != "" {
		body["timeEstimate"] = in.TimeEstimate
	}
	if in.Module != "" {
		body["module"] = in.Module
	}
	if in.Target != "" {
		body["target"] = in.Target
	}
	if in.ImageURL != "" {
		body["imageUrl"] = in.ImageURL
	}
	if in.StartDate != "" {
		body["startDate"] = in.StartDate
	}
	if in.DueDate != "" {
		body["dueDate"] = in.DueDate
	}
	if in.SprintID != "" {
		body["sprintId"] = in.SprintID
	}
	if in.AssigneeID != "" {
		body["assigneeId"] = in.AssigneeID
	}

	var wire wireTask
	if err := c.do(ctx, http.MethodPost, "/tasks", body, &wire); err != nil {
		return nil, err
	}
	card := wire.toCard()
	return &card, nil
}

// taskUpdateBody flattens a partial update into the wire payload, including
// only the fields that are set.
func taskUpdateBody(id string, update ports.TaskUpdate) map[string]any {
	body := map[string]any{"id": id}
	set := func(key string, v any, ok bool) {
		if ok {
			body[key] = v
		}
	}
	set("title", deref(update.Title), update.Title != nil)
	set("description", deref(update.Description), update.Description != nil)
	set("priority", deref(update.Priority), update.Priority != nil)
	set("timeEstimate", deref(update.TimeEstimate), update.TimeEstimate != nil)
	set("module", deref(update.Module), update.Module != nil)
	set("target", deref(update.Target), update.Target != nil)
	set("imageUrl", deref(update.ImageURL), update.ImageURL != nil)
	set("assigneeId", deref(update.AssigneeID), update.AssigneeID != nil)
	set("sprintId", deref(update.SprintID), update.SprintID != nil)
	set("columnId", deref(update.ColumnID), update.ColumnID != nil)
	set("startDate", deref(update.StartDate), update.StartDate != nil)
	set("dueDate", deref(update.DueDate), update.DueDate != nil)
	if update.StoryPoints != nil {
		body["storyPoints"] = *update.StoryPoints
	}
	if update.Progress != nil {
		body["progress"] = *update.Progress
	}
	if update.Order != nil {
		body["order"] = *update.Order
	}
	return body
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c *Client) UpdateTask(ctx context.Context, id string, update ports.TaskUpdate) error {
	return c.do(ctx, http.MethodPut, "/tasks", taskUpdateBody(id, update), nil)
}

func (c *Client) PatchTask(ctx context.Context, id string, update ports.TaskUpdate) error {
	return c.do(ctx, http.MethodPatch, "/tasks", taskUpdateBody(id, update), nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks?id="+url.QueryEscape(id), nil, nil)
}

// --- Sprints ----------------------------------------------------------------

func (c *Client) FetchSprints(ctx context.Context) ([]domain.Sprint, error) {
	var wire []wireSprint
	if err := c.do(ctx, http.MethodGet, "/sprints", nil, &wire); err != nil {
		return nil, err
	}
	sprints := make([]domain.Sprint, len(wire))
	for i, w := range wire {
		sprints[i] = w.toSprint()
	}
	return sprints, nil
}

func (c *Client) CreateSprint(ctx context.Context, in ports.SprintInput) (*domain.Sprint, error) {
	body := map[string]any{"name": in.Name}
	if in.Description != "" {
		body["description"] = in.Description
	}
	if in.StartDate != "" {
		body["startDate"] = in.StartDate
	}
	if in.EndDate != "" {
		body["endDate"] = in.EndDate
	}
	if in.Status != "" {
		body["status"] = in.Status
	}

	var wire wireSprint
	if err := c.do(ctx, http.MethodPost, "/sprints", body, &wire); err != nil {
		return nil, err
	}
	s := wire.toSprint()
	return &s, nil
}

func (c *Client) UpdateSprint(ctx context.Context, id string, update ports.SprintUpdate) error {
	body := map[string]any{"id": id}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Description != nil {
		body["description"] = *update.Description
	}
	if update.StartDate != nil {
		body["startDate"] = *update.StartDate
	}
	if update.EndDate != nil {
		body["endDate"] = *update.EndDate
	}
	if update.Status != nil {
		body["status"] = *update.Status
	}
	return c.do(ctx, http.MethodPut, "/sprints", body, nil)
}

func (c *Client) DeleteSprint(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sprints?id="+url.QueryEscape(id), nil, nil)
}

// --- Users ------------------------------------------------------------------

func (c *Client) FetchUsers(ctx context.Context) ([]domain.User, error) {
	var wire []wireUser
	if err := c.do(ctx, http.MethodGet, "/users", nil, &wire); err != nil {
		return nil, err
	}
	users := make([]domain.User, len(wire))
	for i, w := range wire {
		users[i] = w.toUser()
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	body := map[string]any{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	}
	if in.Role != "" {
		body["role"] = in.Role
	}

	var wire wireUser
	if err := c.do(ctx, http.MethodPost, "/users", body, &wire); err != nil {
		return nil, err
	}
	u := wire.toUser()
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, update ports.UserUpdate) error {
	body := map[string]any{"id": id}
	if update.Name != nil {
		body["name"] = *update.Name
	}
	if update.Email != nil {
		body["email"] = *update.Email
	}
	if update.Role != nil {
		body["role"] = *update.Role
	}
	return c.do(ctx, http.MethodPut, "/users", body, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users?id="+url.QueryEscape(id), nil, nil)
}

// --- Auth -------------------------------------------------------------------

// Login authenticates with a plain email/password pair. A 401 maps to
// domain.ErrInvalidCredentials; the returned user never carries a password.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var wire wireUser
	if err := c.do(ctx, http.MethodPost, "/auth", body, &wire); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%s: %w", apiErr.Message, domain.ErrInvalidCredentials)
		}
		return nil, err
	}
	u := wire.toUser()
	return &u, nil
}

var _ ports.RemoteStore = (*Client)(nil)
