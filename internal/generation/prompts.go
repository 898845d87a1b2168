package generation

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/taskwise/taskwise-api/internal/domain"
)

// Prompt templates sent to the generation service. Each instructs the model
// to reply with bare JSON in the shape the normalizer expects; the normalizer
// still treats the reply as untrusted.
const (
	taskListPromptTemplate = `You are a helpful task planner. Create a list of specific, actionable tasks based on the user's input.
Format your response as a JSON array of tasks, where each task has:
- title (string): A short, clear title
- description (string): A detailed description
- priority (string): Must be exactly "Low", "Medium", or "High"
Example format:
[
    {
        "title": "Book flight tickets",
        "description": "Search and book round-trip flights",
        "priority": "High"
    }
]
Respond with the JSON array only, no surrounding text.

User input: {{.Prompt}}`

	subtaskPromptTemplate = `You are a helpful task planner. Break the following task down into smaller, concrete subtasks.
Format your response as a JSON array where each subtask has:
- title (string): A short, clear title
- description (string): A detailed description
- priority (string): Must be exactly "Low", "Medium", or "High"
Respond with the JSON array only, no surrounding text.

Task: {{.Title}}{{if .Description}}
Details: {{.Description}}{{end}}{{if .DueDate}}
Due: {{.DueDate}}{{end}}`

	assistancePromptTemplate = `You are a helpful assistant. Provide practical guidance for completing the following task.
Format your response as a JSON object with:
- steps: array of objects with "step" (number) and "description" (string)
- resources: array of objects with "title", "url" and "description" (strings)
- tips: array of strings
- estimated_time (string)
- difficulty_level (string): "Low", "Medium", or "High"
Respond with the JSON object only, no surrounding text.

Task: {{.Title}}{{if .Description}}
Details: {{.Description}}{{end}}`
)

var (
	taskListPrompt   = template.Must(template.New("task_list").Parse(taskListPromptTemplate))
	subtaskPrompt    = template.Must(template.New("subtasks").Parse(subtaskPromptTemplate))
	assistancePrompt = template.Must(template.New("assistance").Parse(assistancePromptTemplate))
)

// taskPromptData carries task fields into the subtask and assistance templates.
type taskPromptData struct {
	Title       string
	Description string
	DueDate     string
}

// BuildTaskListPrompt renders the task-list generation prompt for the given
// user input. Returns ErrEmptyPrompt if the input is empty.
func BuildTaskListPrompt(userPrompt string) (string, error) {
	if userPrompt == "" {
		return "", ErrEmptyPrompt
	}
	return renderPrompt(taskListPrompt, struct{ Prompt string }{Prompt: userPrompt})
}

// BuildSubtaskPrompt renders the subtask breakdown prompt for the given parent task.
func BuildSubtaskPrompt(task *domain.Task) (string, error) {
	return renderPrompt(subtaskPrompt, promptDataFromTask(task))
}

// BuildAssistancePrompt renders the assistance guidance prompt for the given task.
func BuildAssistancePrompt(task *domain.Task) (string, error) {
	return renderPrompt(assistancePrompt, promptDataFromTask(task))
}

func promptDataFromTask(task *domain.Task) taskPromptData {
	data := taskPromptData{
		Title:       task.Title,
		Description: task.Description,
	}
	if task.DueDate != nil {
		data.DueDate = task.DueDate.Format(time.RFC3339)
	}
	return data
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %q: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
