package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewTask(t *testing.T) {
	t.Parallel()
	ownerID := uuid.New()

	task, err := NewTask(ownerID, TaskDraft{Title: "Book flights"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if task.OwnerID != ownerID {
		t.Errorf("Expected owner ID %s, got %s", ownerID, task.OwnerID)
	}

	if task.Priority != PriorityMedium {
		t.Errorf("Expected default priority Medium, got %s", task.Priority)
	}

	if task.IsCompleted {
		t.Error("Expected new task to be incomplete")
	}

	if task.Tags == nil || task.Notes == nil {
		t.Error("Expected tags and notes to default to empty slices, not nil")
	}

	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}

	if task.UpdatedAt.Before(task.CreatedAt) {
		t.Error("Expected UpdatedAt >= CreatedAt")
	}

	// Missing title
	_, err = NewTask(ownerID, TaskDraft{})
	if err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	// Missing owner
	_, err = NewTask(uuid.Nil, TaskDraft{Title: "x"})
	if err != ErrTaskOwnerIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskOwnerIDEmpty, err)
	}

	// Out-of-range progress
	_, err = NewTask(ownerID, TaskDraft{Title: "x", Progress: 101})
	if err != ErrProgressOutOfRange {
		t.Errorf("Expected error %v, got %v", ErrProgressOutOfRange, err)
	}
}

func TestNormalizePriority(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   Priority
		want Priority
	}{
		{PriorityLow, PriorityLow},
		{PriorityMedium, PriorityMedium},
		{PriorityHigh, PriorityHigh},
		{"Urgent", PriorityMedium},
		{"", PriorityMedium},
		// Matching is case-sensitive
		{"low", PriorityMedium},
		{"HIGH", PriorityMedium},
	}

	for _, tc := range cases {
		if got := NormalizePriority(tc.in); got != tc.want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewSubtask(t *testing.T) {
	t.Parallel()
	due := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	parent, err := NewTask(uuid.New(), TaskDraft{
		Title:    "Plan offsite",
		Category: "Work",
		DueDate:  &due,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	subtask, err := NewSubtask(parent, TaskDraft{Title: "Book venue", Priority: PriorityHigh})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if subtask.ParentID == nil || *subtask.ParentID != parent.ID {
		t.Error("Expected subtask to record its parent ID")
	}

	if subtask.OwnerID != parent.OwnerID {
		t.Error("Expected subtask to inherit its parent's owner")
	}

	if subtask.Category != "Work" {
		t.Errorf("Expected subtask to inherit category Work, got %q", subtask.Category)
	}

	if subtask.DueDate == nil || !subtask.DueDate.Equal(due) {
		t.Error("Expected subtask to inherit its parent's due date")
	}

	if subtask.Priority != PriorityHigh {
		t.Errorf("Expected subtask priority High, got %s", subtask.Priority)
	}
}

func TestTaskToggleCompletion(t *testing.T) {
	t.Parallel()
	task, err := NewTask(uuid.New(), TaskDraft{Title: "x"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	task.ToggleCompletion()
	if !task.IsCompleted {
		t.Error("Expected first toggle to complete the task")
	}

	task.ToggleCompletion()
	if task.IsCompleted {
		t.Error("Expected second toggle to reopen the task")
	}
}

func TestTaskAppendNoteOrder(t *testing.T) {
	t.Parallel()
	task, err := NewTask(uuid.New(), TaskDraft{Title: "x"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	task.AppendNote("x")
	task.AppendNote("y")

	if len(task.Notes) != 2 || task.Notes[0] != "x" || task.Notes[1] != "y" {
		t.Errorf("Expected notes [x y] in append order, got %v", task.Notes)
	}
}

func TestTaskSetProgress(t *testing.T) {
	t.Parallel()
	task, err := NewTask(uuid.New(), TaskDraft{Title: "x"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := task.SetProgress(55); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Progress != 55 {
		t.Errorf("Expected progress 55, got %d", task.Progress)
	}

	for _, invalid := range []int{-1, 101, 1000} {
		if err := task.SetProgress(invalid); err != ErrProgressOutOfRange {
			t.Errorf("SetProgress(%d): expected %v, got %v", invalid, ErrProgressOutOfRange, err)
		}
		if task.Progress != 55 {
			t.Errorf("SetProgress(%d): expected progress unchanged at 55, got %d", invalid, task.Progress)
		}
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	if _, err := NewUser("owner@example.com", "a long enough password"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := NewUser("not-an-email", "a long enough password"); err != ErrInvalidEmail {
		t.Errorf("Expected error %v, got %v", ErrInvalidEmail, err)
	}

	if _, err := NewUser("owner@example.com", "short"); err != ErrPasswordTooShort {
		t.Errorf("Expected error %v, got %v", ErrPasswordTooShort, err)
	}
}
