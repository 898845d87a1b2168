package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Priority represents how urgent a task is.
type Priority string

// Valid priority values. Anything else supplied by a caller or by the
// generation service is coerced to PriorityMedium.
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskOwnerIDEmpty is returned when a task's owner ID is empty or nil.
	ErrTaskOwnerIDEmpty = errors.New("task owner ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrProgressOutOfRange is returned when a task's progress is outside [0,100].
	ErrProgressOutOfRange = errors.New("task progress must be between 0 and 100")
)

// Task represents a single item of work owned by a user. Subtasks reference
// their parent through ParentID, forming a one-level tree; a subtask always
// shares its parent's owner.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags"`
	Progress    int        `json:"progress"`
	Notes       []string   `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user from a draft.
// It generates a new UUID for the task ID, applies field defaults, and sets
// the creation/update timestamps. Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, draft TaskDraft) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Priority:    NormalizePriority(draft.Priority),
		Category:    draft.Category,
		Tags:        draft.Tags,
		Progress:    draft.Progress,
		Notes:       draft.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Notes == nil {
		task.Notes = []string{}
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// NewSubtask creates a child Task under the given parent, inheriting the
// parent's owner, category, and due date, and recording the parent linkage.
// Returns an error if validation fails.
func NewSubtask(parent *Task, draft TaskDraft) (*Task, error) {
	draft.Category = parent.Category
	draft.DueDate = parent.DueDate

	task, err := NewTask(parent.OwnerID, draft)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	task.ParentID = &parentID
	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerIDEmpty
	}

	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if !IsValidPriority(t.Priority) {
		return ErrValidation
	}

	if t.Progress < 0 || t.Progress > 100 {
		return ErrProgressOutOfRange
	}

	return nil
}

// Touch refreshes the UpdatedAt timestamp. Called on every mutation so that
// UpdatedAt never falls behind CreatedAt.
func (t *Task) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// ToggleCompletion flips the completion flag and refreshes UpdatedAt.
func (t *Task) ToggleCompletion() {
	t.IsCompleted = !t.IsCompleted
	t.Touch()
}

// AppendNote pushes a note onto the notes sequence, preserving prior order.
func (t *Task) AppendNote(note string) {
	t.Notes = append(t.Notes, note)
	t.Touch()
}

// SetProgress writes the given progress value.
// Returns ErrProgressOutOfRange if the value is outside [0,100]; the task
// is left unchanged in that case.
func (t *Task) SetProgress(value int) error {
	if value < 0 || value > 100 {
		return ErrProgressOutOfRange
	}
	t.Progress = value
	t.Touch()
	return nil
}

// IsValidPriority reports whether the given priority is one of the three
// allowed values. The comparison is case-sensitive.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// NormalizePriority returns the priority unchanged when it is valid and
// PriorityMedium otherwise, including for the empty string.
func NormalizePriority(p Priority) Priority {
	if IsValidPriority(p) {
		return p
	}
	return PriorityMedium
}
