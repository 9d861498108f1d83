package ports

import (
	"context"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// CreateTaskInput carries the mutable task fields plus the owning column and
// optional sprint/assignee references for a create call.
type CreateTaskInput struct {
	TaskID       string
	Title        string
	Description  string
	Priority     string
	StoryPoints  int
	Progress     int
	TimeEstimate string
	Module       string
	Target       string
	ImageURL     string
	StartDate    string
	DueDate      string
	ColumnID     string
	SprintID     string
	AssigneeID   string
}

// TaskUpdate carries a partial task mutation. Nil fields are left untouched
// by the store.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Priority     *string
	StoryPoints  *int
	Progress     *int
	TimeEstimate *string
	Module       *string
	Target       *string
	ImageURL     *string
	AssigneeID   *string
	SprintID     *string
	ColumnID     *string
	Order        *int
	StartDate    *string
	DueDate      *string
}

// SprintInput carries the mutable sprint fields. Dates are YYYY-MM-DD strings.
type SprintInput struct {
	Name        string
	Description string
	StartDate   string
	EndDate     string
	Status      string
}

// SprintUpdate carries a partial sprint mutation.
type SprintUpdate struct {
	Name        *string
	Description *string
	StartDate   *string
	EndDate     *string
	Status      *string
}

// CreateUserInput carries the fields for creating an account. Password is
// accepted here and never returned.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UserUpdate carries a partial user mutation.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *string
}

// RemoteStore is the client-side view of the persistent store: one method per
// resource/verb, each a single round trip with no retries and no caching.
type RemoteStore interface {
	FetchColumns(ctx context.Context) ([]domain.Column, error)
	CreateColumn(ctx context.Context, title string, order int) (*domain.Column, error)
	UpdateColumn(ctx context.Context, id, title string) error
	DeleteColumn(ctx context.Context, id string) error

	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Card, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) error
	// PatchTask issues the partial columnId/order update used by card moves.
	PatchTask(ctx context.Context, id string, update TaskUpdate) error
	DeleteTask(ctx context.Context, id string) error

	FetchSprints(ctx context.Context) ([]domain.Sprint, error)
	CreateSprint(ctx context.Context, in SprintInput) (*domain.Sprint, error)
	UpdateSprint(ctx context.Context, id string, update SprintUpdate) error
	DeleteSprint(ctx context.Context, id string) error

	FetchUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) error
	DeleteUser(ctx context.Context, id string) error

	Login(ctx context.Context, email, password string) (*domain.User, error)
}
