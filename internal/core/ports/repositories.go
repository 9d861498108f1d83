package ports

import (
	"context"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// ColumnRepository defines persistence operations for board columns.
type ColumnRepository interface {
	// List returns all columns sorted by order, each with its cards nested
	// and assignee/sprint references resolved.
	List(ctx context.Context) ([]domain.Column, error)
	Create(ctx context.Context, title string, order int) (*domain.Column, error)
	Update(ctx context.Context, id string, title *string, order *int) (*domain.Column, error)
	// Delete removes the column and cascades to its tasks.
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Card, error)
	Create(ctx context.Context, in CreateTaskInput) (*domain.Card, error)
	Update(ctx context.Context, id string, update TaskUpdate) (*domain.Card, error)
	Delete(ctx context.Context, id string) error
}

// SprintRepository defines persistence operations for sprints.
type SprintRepository interface {
	// List returns all sprints, each with the cards referencing it nested.
	List(ctx context.Context) ([]domain.Sprint, error)
	Create(ctx context.Context, in SprintInput) (*domain.Sprint, error)
	Update(ctx context.Context, id string, update SprintUpdate) (*domain.Sprint, error)
	// Delete removes the sprint and detaches its tasks.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*domain.User, error)
	// Delete removes the account and unassigns its tasks.
	Delete(ctx context.Context, id string) error
	// Authenticate compares the stored password for email against password
	// and returns the account on a match, domain.ErrInvalidCredentials
	// otherwise. The password never leaves the repository.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
