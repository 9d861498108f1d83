package rest

import (
	"time"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// Wire representations of the store's JSON payloads. Tasks arrive with their
// assignee and sprint relations nested; the projection below flattens them
// into the board's Card shape.

type wireUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type wireTask struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority"`
	StoryPoints  int       `json:"storyPoints"`
	Progress     int       `json:"progress"`
	TimeEstimate string    `json:"timeEstimate"`
	Module       string    `json:"module"`
	Target       string    `json:"target"`
	ImageURL     string    `json:"imageUrl"`
	ColumnID     string    `json:"columnId"`
	SprintID     string    `json:"sprintId"`
	AssigneeID   string    `json:"assigneeId"`
	Order        *int      `json:"order"`
	StartDate    string    `json:"startDate"`
	DueDate      string    `json:"dueDate"`
	Assignee     *wireUser `json:"assignee"`
}

type wireColumn struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Order int        `json:"order"`
	Tasks []wireTask `json:"tasks"`
}

type wireSprint struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   string     `json:"startDate"`
	EndDate     string     `json:"endDate"`
	Status      string     `json:"status"`
	Tasks       []wireTask `json:"tasks"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// normalizeDate reduces a store date value to a YYYY-MM-DD string. Both
// RFC 3339 timestamps and bare dates are accepted; anything else passes
// through unchanged.
func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

func (w wireTask) toCard() domain.Card {
	card := domain.Card{
		ID:           w.ID,
		TaskID:       w.TaskID,
		ColumnID:     w.ColumnID,
		Title:        w.Title,
		Description:  w.Description,
		Priority:     w.Priority,
		StoryPoints:  w.StoryPoints,
		AssigneeID:   w.AssigneeID,
		Progress:     w.Progress,
		TimeEstimate: w.TimeEstimate,
		Module:       w.Module,
		Target:       w.Target,
		ImageURL:     w.ImageURL,
		SprintID:     w.SprintID,
		Order:        w.Order,
		StartDate:    normalizeDate(w.StartDate),
		DueDate:      normalizeDate(w.DueDate),
	}
	if w.Assignee != nil {
		card.Assignee = w.Assignee.Name
	}
	return card
}

func (w wireColumn) toColumn() domain.Column {
	col := domain.Column{
		ID:    w.ID,
		Title: w.Title,
		Order: w.Order,
		Cards: make([]domain.Card, len(w.Tasks)),
	}
	for i, t := range w.Tasks {
		col.Cards[i] = t.toCard()
	}
	return col
}

func (w wireSprint) toSprint() domain.Sprint {
	s := domain.Sprint{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		StartDate:   normalizeDate(w.StartDate),
		EndDate:     normalizeDate(w.EndDate),
		Status:      domain.SprintStatus(w.Status),
		Tasks:       make([]domain.Card, len(w.Tasks)),
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	for i, t := range w.Tasks {
		s.Tasks[i] = t.toCard()
	}
	return s
}

func (w wireUser) toUser() domain.User {
	return domain.User{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Role:      w.Role,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
