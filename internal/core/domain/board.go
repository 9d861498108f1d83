package domain

import "time"

// Priority levels a card can carry.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// SprintStatus represents the lifecycle state of a sprint.
type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
)

// CardState classifies a card for dashboard aggregation, derived from its
// progress value.
type CardState string

const (
	CardTodo       CardState = "todo"
	CardInProgress CardState = "in_progress"
	CardDone       CardState = "done"
)

// Column is an ordered lane on the board. Order defines left-to-right
// position and is unique per board; Cards keeps the column's tasks in their
// visual top-to-bottom order.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Cards []Card `json:"cards"`
}

// Card is the board projection of a persisted task. It always belongs to
// exactly one column; SprintID and AssigneeID are optional, non-owning
// references. Date fields are normalized YYYY-MM-DD strings.
type Card struct {
	ID           string  `json:"id"`
	TaskID       string  `json:"taskId"`
	ColumnID     string  `json:"columnId,omitempty"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority"`
	StoryPoints  int     `json:"storyPoints,omitempty"`
	AssigneeID   string  `json:"assigneeId,omitempty"`
	Assignee     string  `json:"assignee,omitempty"`
	Progress     int     `json:"progress,omitempty"`
	TimeEstimate string  `json:"timeEstimate,omitempty"`
	Module       string  `json:"module,omitempty"`
	Target       string  `json:"target,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	SprintID     string  `json:"sprintId,omitempty"`
	Order        *int    `json:"order,omitempty"`
	StartDate    string  `json:"startDate,omitempty"`
	DueDate      string  `json:"dueDate,omitempty"`
}

// State classifies the card by progress: 100 means done, 0 or unset means
// todo, anything in between means in progress.
func (c Card) State() CardState {
	switch {
	case c.Progress >= 100:
		return CardDone
	case c.Progress > 0:
		return CardInProgress
	default:
		return CardTodo
	}
}

// OrderValue returns the card's order, treating an absent order as 0 so that
// sorting falls back to the underlying array position.
func (c Card) OrderValue() int {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}

// Sprint aggregates cards that reference it by SprintID. It does not own
// them; its lifecycle is independent of columns.
type Sprint struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	StartDate   string       `json:"startDate,omitempty"`
	EndDate     string       `json:"endDate,omitempty"`
	Status      SprintStatus `json:"status"`
	Tasks       []Card       `json:"tasks"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
