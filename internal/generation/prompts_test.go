package generation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwise/taskwise-api/internal/domain"
)

func TestBuildTaskListPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := BuildTaskListPrompt("Plan a weekend trip to Portland")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Plan a weekend trip to Portland")
	assert.Contains(t, prompt, "JSON array")
}

func TestBuildTaskListPrompt_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := BuildTaskListPrompt("")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestBuildSubtaskPrompt(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	task, err := domain.NewTask(uuid.New(), domain.TaskDraft{
		Title:       "Plan offsite",
		Description: "Three day team offsite",
		DueDate:     &due,
	})
	require.NoError(t, err)

	prompt, err := BuildSubtaskPrompt(task)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Plan offsite")
	assert.Contains(t, prompt, "Three day team offsite")
	assert.Contains(t, prompt, "2026-03-15T12:00:00Z")
}

func TestBuildSubtaskPrompt_OmitsEmptyFields(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(uuid.New(), domain.TaskDraft{Title: "Plan offsite"})
	require.NoError(t, err)

	prompt, err := BuildSubtaskPrompt(task)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Details:")
	assert.NotContains(t, prompt, "Due:")
}

func TestBuildAssistancePrompt(t *testing.T) {
	t.Parallel()

	task, err := domain.NewTask(uuid.New(), domain.TaskDraft{
		Title:       "Write essay",
		Description: "500 words on rivers",
	})
	require.NoError(t, err)

	prompt, err := BuildAssistancePrompt(task)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Write essay")
	assert.Contains(t, prompt, "500 words on rivers")
	assert.Contains(t, prompt, "difficulty_level")
}
