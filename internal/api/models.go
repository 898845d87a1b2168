package api

import (
	"time"

	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/store"
)

// GenerateTasksRequest represents the request body for AI task generation
type GenerateTasksRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// CreateTaskRequest represents the request body for creating a new task
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Progress    int        `json:"progress" validate:"gte=0,lte=100"`
	Notes       []string   `json:"notes"`
}

// UpdateTaskRequest represents a partial task update. Only fields present in
// the request body are applied.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	IsCompleted *bool      `json:"is_completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	Category    *string    `json:"category"`
	Tags        *[]string  `json:"tags"`
	Progress    *int       `json:"progress"`
}

// AppendNoteRequest represents the request body for appending a note
type AppendNoteRequest struct {
	Note string `json:"note" validate:"required,min=1"`
}

// SetProgressRequest represents the request body for a progress update
type SetProgressRequest struct {
	Progress *int `json:"progress" validate:"required"`
}

// TaskResponse represents the response data for a task
type TaskResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	ParentID    *string    `json:"parent_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	Progress    int        `json:"progress"`
	Notes       []string   `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// draftFromCreateRequest converts a create request into a domain draft.
func draftFromCreateRequest(req CreateTaskRequest) domain.TaskDraft {
	return domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    domain.NormalizePriority(domain.Priority(req.Priority)),
		Category:    req.Category,
		Tags:        req.Tags,
		Progress:    req.Progress,
		Notes:       req.Notes,
	}
}

// updateFromRequest converts an update request into a store partial update.
func updateFromRequest(req UpdateTaskRequest) store.TaskUpdate {
	update := store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Tags:        req.Tags,
		Progress:    req.Progress,
	}
	if req.Priority != nil {
		priority := domain.NormalizePriority(domain.Priority(*req.Priority))
		update.Priority = &priority
	}
	return update
}

// taskToResponse converts a domain.Task to a TaskResponse
func taskToResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		OwnerID:     task.OwnerID.String(),
		Title:       task.Title,
		Description: task.Description,
		IsCompleted: task.IsCompleted,
		DueDate:     task.DueDate,
		Priority:    string(task.Priority),
		Category:    task.Category,
		Tags:        task.Tags,
		Progress:    task.Progress,
		Notes:       task.Notes,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.ParentID != nil {
		parentID := task.ParentID.String()
		resp.ParentID = &parentID
	}
	return resp
}

// tasksToResponse converts a slice of tasks, always yielding a non-nil slice.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
