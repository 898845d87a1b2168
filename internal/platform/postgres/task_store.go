package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/platform/logger"
	"github.com/taskwise/taskwise-api/internal/store"
)

// taskColumns is the column list shared by every task SELECT so that
// scanTask stays in sync with a single definition.
const taskColumns = `id, owner_id, parent_id, title, description, is_completed,
	due_date, priority, category, tags, progress, notes, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner or parent doesn't exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	tags, notes, err := marshalTaskArrays(task)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, parent_id, title, description, is_completed,
			due_date, priority, category, tags, progress, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.ParentID,
		task.Title,
		nullString(task.Description),
		task.IsCompleted,
		task.DueDate,
		task.Priority,
		nullString(task.Category),
		tags,
		task.Progress,
		notes,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return fmt.Errorf("%w: referenced owner or parent not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// Tasks are returned in insertion order.
func (s *PostgresTaskStore) List(ctx context.Context, offset, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		ORDER BY created_at ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()))
		return nil, err
	}

	return collectTasks(rows, log)
}

// Update implements store.TaskStore.Update
// It applies only the fields present in the update and refreshes updated_at.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	setClauses := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if update.Title != nil {
		if *update.Title == "" {
			return nil, domain.ErrTaskTitleEmpty
		}
		setClauses = append(setClauses, "title = "+arg(*update.Title))
	}
	if update.Description != nil {
		setClauses = append(setClauses, "description = "+arg(nullString(*update.Description)))
	}
	if update.IsCompleted != nil {
		setClauses = append(setClauses, "is_completed = "+arg(*update.IsCompleted))
	}
	if update.DueDate != nil {
		setClauses = append(setClauses, "due_date = "+arg(*update.DueDate))
	}
	if update.Priority != nil {
		priority := domain.NormalizePriority(*update.Priority)
		setClauses = append(setClauses, "priority = "+arg(priority))
	}
	if update.Category != nil {
		setClauses = append(setClauses, "category = "+arg(nullString(*update.Category)))
	}
	if update.Tags != nil {
		tags, err := json.Marshal(*update.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tags: %w", err)
		}
		setClauses = append(setClauses, "tags = "+arg(tags))
	}
	if update.Progress != nil {
		if *update.Progress < 0 || *update.Progress > 100 {
			return nil, domain.ErrProgressOutOfRange
		}
		setClauses = append(setClauses, "progress = "+arg(*update.Progress))
	}

	// Every mutation refreshes updated_at, even an empty patch
	setClauses = append(setClauses, "updated_at = "+arg(time.Now().UTC()))

	query := `
		UPDATE tasks
		SET ` + strings.Join(setClauses, ", ") + `
		WHERE id = ` + arg(id) + `
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()))
	return task, nil
}

// Delete implements store.TaskStore.Delete
// Subtasks are removed with their parent through the ON DELETE CASCADE
// constraint on parent_id.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.String("task_id", id.String()))
	return nil
}

// Search implements store.TaskStore.Search
// The text query matches title or description case-insensitively; all other
// provided filters are exact matches, AND-combined.
func (s *PostgresTaskStore) Search(
	ctx context.Context,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := []string{}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		where = append(where,
			"(title ILIKE "+pattern+" OR description ILIKE "+pattern+")")
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.Priority != "" {
		where = append(where, "priority = "+arg(filter.Priority))
	}
	if filter.Completed != nil {
		where = append(where, "is_completed = "+arg(*filter.Completed))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to search tasks",
			slog.String("error", err.Error()))
		return nil, err
	}

	return collectTasks(rows, log)
}

// ToggleCompletion implements store.TaskStore.ToggleCompletion
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET is_completed = NOT is_completed, updated_at = $1
		WHERE id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, time.Now().UTC(), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for completion toggle",
				slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to toggle task completion",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	log.Info("task completion toggled",
		slog.String("task_id", id.String()),
		slog.Bool("is_completed", task.IsCompleted))
	return task, nil
}

// AppendNote implements store.TaskStore.AppendNote
// Notes are appended in arrival order; prior notes are never reordered.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) AppendNote(ctx context.Context, id uuid.UUID, note string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET notes = notes || jsonb_build_array($1::text), updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, note, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to append note",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for note append",
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("note appended to task",
		slog.String("task_id", id.String()))
	return nil
}

// SetProgress implements store.TaskStore.SetProgress
// Returns domain.ErrProgressOutOfRange, with the store unchanged, if the
// value is outside [0,100]. Returns store.ErrTaskNotFound if the task does
// not exist.
func (s *PostgresTaskStore) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if progress < 0 || progress > 100 {
		log.Warn("rejected out-of-range progress value",
			slog.String("task_id", id.String()),
			slog.Int("progress", progress))
		return domain.ErrProgressOutOfRange
	}

	query := `
		UPDATE tasks
		SET progress = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, progress, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set task progress",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for progress update",
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task progress updated",
		slog.String("task_id", id.String()),
		slog.Int("progress", progress))
	return nil
}

// ListByParent implements store.TaskStore.ListByParent
func (s *PostgresTaskStore) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE parent_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, parentID)
	if err != nil {
		log.Error("failed to list subtasks",
			slog.String("error", err.Error()),
			slog.String("parent_id", parentID.String()))
		return nil, err
	}

	return collectTasks(rows, log)
}

// Categories implements store.TaskStore.Categories
func (s *PostgresTaskStore) Categories(ctx context.Context) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT DISTINCT category
		FROM tasks
		WHERE category IS NOT NULL AND category <> ''
		ORDER BY category ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list categories",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer closeRows(rows, log)

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			log.Error("failed to scan category row",
				slog.String("error", err.Error()))
			return nil, err
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return categories, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var parentID uuid.NullUUID
	var description, category sql.NullString
	var dueDate sql.NullTime
	var tags, notes []byte

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&parentID,
		&task.Title,
		&description,
		&task.IsCompleted,
		&dueDate,
		&task.Priority,
		&category,
		&tags,
		&task.Progress,
		&notes,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		id := parentID.UUID
		task.ParentID = &id
	}
	task.Description = description.String
	task.Category = category.String
	if dueDate.Valid {
		due := dueDate.Time
		task.DueDate = &due
	}

	if err := json.Unmarshal(tags, &task.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task tags: %w", err)
	}
	if err := json.Unmarshal(notes, &task.Notes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task notes: %w", err)
	}

	return &task, nil
}

// collectTasks drains a task result set, always returning a non-nil slice.
func collectTasks(rows *sql.Rows, log *slog.Logger) ([]*domain.Task, error) {
	defer closeRows(rows, log)

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

// marshalTaskArrays serializes a task's tags and notes for jsonb columns.
func marshalTaskArrays(task *domain.Task) ([]byte, []byte, error) {
	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal task tags: %w", err)
	}
	notes, err := json.Marshal(task.Notes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal task notes: %w", err)
	}
	return tags, notes, nil
}

// nullString maps the empty string onto SQL NULL for optional text columns.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
