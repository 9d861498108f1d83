package handler

import (
	"time"

	"github.com/sprintdeck/board-system/internal/core/domain"
)

// Response shapes for the JSON CRUD contract. Tasks nest their assignee
// relation so board clients can show display names without a second lookup.

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type taskAssignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type taskResponse struct {
	ID           string        `json:"id"`
	TaskID       string        `json:"taskId"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Priority     string        `json:"priority"`
	StoryPoints  int           `json:"storyPoints,omitempty"`
	Progress     int           `json:"progress"`
	TimeEstimate string        `json:"timeEstimate,omitempty"`
	Module       string        `json:"module,omitempty"`
	Target       string        `json:"target,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	ColumnID     string        `json:"columnId"`
	SprintID     string        `json:"sprintId,omitempty"`
	AssigneeID   string        `json:"assigneeId,omitempty"`
	Assignee     *taskAssignee `json:"assignee,omitempty"`
	Order        *int          `json:"order,omitempty"`
	StartDate    string        `json:"startDate,omitempty"`
	DueDate      string        `json:"dueDate,omitempty"`
}

type columnResponse struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Order int            `json:"order"`
	Tasks []taskResponse `json:"tasks"`
}

type sprintResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
	Status      string         `json:"status"`
	Tasks       []taskResponse `json:"tasks"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toTaskResponse(card domain.Card) taskResponse {
	resp := taskResponse{
		ID:           card.ID,
		TaskID:       card.TaskID,
		ColumnID:     card.ColumnID,
		Title:        card.Title,
		Description:  card.Description,
		Priority:     card.Priority,
		StoryPoints:  card.StoryPoints,
		Progress:     card.Progress,
		TimeEstimate: card.TimeEstimate,
		Module:       card.Module,
		Target:       card.Target,
		ImageURL:     card.ImageURL,
		SprintID:     card.SprintID,
		AssigneeID:   card.AssigneeID,
		Order:        card.Order,
		StartDate:    card.StartDate,
		DueDate:      card.DueDate,
	}
	if card.AssigneeID != "" {
		resp.Assignee = &taskAssignee{ID: card.AssigneeID, Name: card.Assignee}
	}
	return resp
}

func toColumnResponse(col domain.Column) columnResponse {
	tasks := make([]taskResponse, len(col.Cards))
	for i, card := range col.Cards {
		tasks[i] = toTaskResponse(card)
	}
	return columnResponse{ID: col.ID, Title: col.Title, Order: col.Order, Tasks: tasks}
}

func toSprintResponse(s domain.Sprint) sprintResponse {
	tasks := make([]taskResponse, len(s.Tasks))
	for i, card := range s.Tasks {
		tasks[i] = toTaskResponse(card)
	}
	return sprintResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Status:      string(s.Status),
		Tasks:       tasks,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
