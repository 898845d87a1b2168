package domain

import "time"

// TaskDraft is an in-memory, not-yet-persisted set of task creation fields.
// It is the output of the generation normalizer and the response body of the
// generate endpoint; drafts are only materialized into Tasks on explicit
// creation.
type TaskDraft struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    string     `json:"category,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Progress    int        `json:"progress,omitempty"`
	Notes       []string   `json:"notes,omitempty"`
}

// AssistanceStep is a single numbered step in an assistance guide.
type AssistanceStep struct {
	Number      int    `json:"step"`
	Description string `json:"description"`
}

// AssistanceResource points at external material supporting a task.
type AssistanceResource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// AssistanceReport is the structured guidance payload returned by the
// assistance endpoint: ordered steps, supporting resources, free-form tips,
// and rough effort estimates.
type AssistanceReport struct {
	Steps         []AssistanceStep     `json:"steps"`
	Resources     []AssistanceResource `json:"resources"`
	Tips          []string             `json:"tips"`
	EstimatedTime string               `json:"estimated_time"`
	Difficulty    string               `json:"difficulty_level"`
}
