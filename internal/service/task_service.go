package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/generation"
	"github.com/taskwise/taskwise-api/internal/store"
)

// TaskService provides task-related operations.
type TaskService interface {
	// Create persists a new task from a draft on behalf of the given owner.
	// Owner identity always arrives as an explicit parameter; it is never
	// assumed or defaulted here.
	Create(ctx context.Context, ownerID uuid.UUID, draft domain.TaskDraft) (*domain.Task, error)

	// Get retrieves a task by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks in insertion order with offset/limit pagination.
	List(ctx context.Context, offset, limit int) ([]*domain.Task, error)

	// Update applies a partial update to a task.
	Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) (*domain.Task, error)

	// Delete removes a task and its subtasks.
	Delete(ctx context.Context, id uuid.UUID) error

	// Search retrieves tasks matching the given filter.
	Search(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error)

	// ToggleCompletion flips a task's completion flag.
	ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// AppendNote pushes a note onto a task's notes sequence.
	AppendNote(ctx context.Context, id uuid.UUID, note string) error

	// SetProgress writes a task's progress value, validating its range.
	SetProgress(ctx context.Context, id uuid.UUID, progress int) error

	// Categories retrieves the distinct category values across all tasks.
	Categories(ctx context.Context) ([]string, error)

	// Subtasks retrieves the children of a task.
	// Returns store.ErrTaskNotFound if the parent itself does not exist.
	Subtasks(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error)

	// GenerateTasks asks the generation service to plan tasks for a prompt
	// and returns the normalized drafts without persisting anything.
	GenerateTasks(ctx context.Context, prompt string) ([]domain.TaskDraft, error)

	// GenerateSubtasks asks the generation service to break a task down and
	// persists the resulting children in a single transaction.
	GenerateSubtasks(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error)

	// Assist asks the generation service for a guidance report on a task.
	Assist(ctx context.Context, id uuid.UUID) (*domain.AssistanceReport, error)
}

// taskService is the concrete TaskService backed by the task store and the
// generation completer.
type taskService struct {
	taskStore store.TaskStore
	txManager store.TransactionManager
	completer generation.Completer
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService. txManager must open transactions
// against the same database the task store writes to.
func NewTaskService(
	taskStore store.TaskStore,
	txManager store.TransactionManager,
	completer generation.Completer,
	logger *slog.Logger,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		taskStore: taskStore,
		txManager: txManager,
		completer: completer,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

func (s *taskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	draft domain.TaskDraft,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, draft)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, offset, limit int) ([]*domain.Task, error) {
	return s.taskStore.List(ctx, offset, limit)
}

func (s *taskService) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	return s.taskStore.Update(ctx, id, update)
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.taskStore.Delete(ctx, id)
}

func (s *taskService) Search(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	return s.taskStore.Search(ctx, filter)
}

func (s *taskService) ToggleCompletion(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.ToggleCompletion(ctx, id)
}

func (s *taskService) AppendNote(ctx context.Context, id uuid.UUID, note string) error {
	return s.taskStore.AppendNote(ctx, id, note)
}

func (s *taskService) SetProgress(ctx context.Context, id uuid.UUID, progress int) error {
	return s.taskStore.SetProgress(ctx, id, progress)
}

func (s *taskService) Categories(ctx context.Context) ([]string, error) {
	return s.taskStore.Categories(ctx)
}

func (s *taskService) Subtasks(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	// The parent must exist; an empty child list is not a 404
	if _, err := s.taskStore.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.taskStore.ListByParent(ctx, parentID)
}

// GenerateTasks forwards the prompt upstream and normalizes the reply.
// A syntactically malformed reply degrades to the normalizer's fallback
// draft rather than failing the request; only transport-level failures and
// structurally broken batches surface as errors.
func (s *taskService) GenerateTasks(ctx context.Context, prompt string) ([]domain.TaskDraft, error) {
	fullPrompt, err := generation.BuildTaskListPrompt(prompt)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, fullPrompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "task generation call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	drafts, err := generation.NormalizeTaskList(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "task generation reply failed normalization", "error", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "generated task drafts", "count", len(drafts))
	return drafts, nil
}

// GenerateSubtasks breaks a parent task down via the generation service and
// persists every resulting child in one transaction: either all children are
// created or none are. Unlike GenerateTasks, a malformed reply is a hard
// failure here; subtasks carry parent linkage that a fallback draft cannot
// safely stand in for.
func (s *taskService) GenerateSubtasks(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	parent, err := s.taskStore.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}

	prompt, err := generation.BuildSubtaskPrompt(parent)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "subtask generation call failed",
			"error", err,
			"parent_id", parentID.String())
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	drafts, err := generation.ParseTaskList(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "subtask generation reply failed strict parsing",
			"error", err,
			"parent_id", parentID.String())
		return nil, err
	}

	subtasks := make([]*domain.Task, 0, len(drafts))
	for _, draft := range drafts {
		subtask, err := domain.NewSubtask(parent, draft)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
		subtasks = append(subtasks, subtask)
	}

	err = s.txManager.Run(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)
		for _, subtask := range subtasks {
			if err := txStore.Create(ctx, subtask); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "generated subtasks",
		"parent_id", parentID.String(),
		"count", len(subtasks))
	return subtasks, nil
}

// Assist produces a guidance report for a task. Like GenerateTasks, a
// malformed reply degrades to the normalizer's single-step fallback report.
func (s *taskService) Assist(ctx context.Context, id uuid.UUID) (*domain.AssistanceReport, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prompt, err := generation.BuildAssistancePrompt(task)
	if err != nil {
		return nil, err
	}

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.logger.ErrorContext(ctx, "assistance call failed",
			"error", err,
			"task_id", id.String())
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return generation.NormalizeAssistance(raw)
}
