package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskwise/taskwise-api/internal/domain"
)

// TaskUpdate describes a partial update of a task. Only non-nil fields are
// applied; everything else is left untouched. UpdatedAt is refreshed by the
// store on every successful update.
type TaskUpdate struct {
	Title       *string
	Description *string
	IsCompleted *bool
	DueDate     *time.Time
	Priority    *domain.Priority
	Category    *string
	Tags        *[]string
	Progress    *int
}

// TaskFilter describes a task search. Zero-valued fields are ignored; all
// provided filters are AND-combined. Query matches title or description with
// a case-insensitive substring match, the rest are exact matches.
type TaskFilter struct {
	Query     string
	Category  string
	Priority  domain.Priority
	Completed *bool
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// It handles domain validation internally.
	// Returns ErrInvalidEntity if the owner or parent does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks in insertion order, paginated by offset and limit.
	// Returns an empty slice when the page is past the end.
	List(ctx context.Context, offset, limit int) ([]*domain.Task, error)

	// Update applies a partial update to an existing task and refreshes its
	// UpdatedAt timestamp. Returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete removes a task. Subtasks of the deleted task are removed with it.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search retrieves tasks matching the given filter, in insertion order.
	// Returns an empty slice if nothing matches.
	Search(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// ToggleCompletion flips a task's completion flag and returns the
	// updated task. Returns ErrTaskNotFound if the task does not exist.
	ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// AppendNote pushes a note onto the end of a task's notes sequence,
	// preserving prior order. Returns ErrTaskNotFound if the task does not exist.
	AppendNote(ctx context.Context, id uuid.UUID, note string) error

	// SetProgress writes a task's progress value.
	// Returns domain.ErrProgressOutOfRange (the store unchanged) if the value
	// is outside [0,100], and ErrTaskNotFound if the task does not exist.
	SetProgress(ctx context.Context, id uuid.UUID, progress int) error

	// ListByParent retrieves the direct subtasks of a task.
	// Returns an empty slice when the task has no subtasks; callers are
	// responsible for checking that the parent itself exists.
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error)

	// Categories retrieves the distinct non-empty category values across all tasks.
	Categories(ctx context.Context) ([]string, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) TaskStore
}
