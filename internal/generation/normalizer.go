package generation

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/taskwise/taskwise-api/internal/domain"
)

// FallbackTitle is the title given to the single draft produced when a model
// reply cannot be parsed at all. The raw reply is preserved verbatim in the
// draft's description so nothing the model said is lost.
const FallbackTitle = "Generated Task"

// Fallback values for an assistance reply that cannot be parsed.
const (
	fallbackEstimatedTime = "Unknown"
	fallbackDifficulty    = "Medium"
)

// dueDateLayouts are the timestamp shapes the normalizer accepts for the
// due_date field, tried in order.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// taskRecord is the expected shape of one element of the model's task-list
// reply. All fields are optional at the JSON level; requiredness and range
// rules are enforced during conversion to a draft.
type taskRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Progress    *int     `json:"progress"`
	Notes       []string `json:"notes"`
}

// assistanceRecord is the expected shape of the model's assistance reply.
type assistanceRecord struct {
	Steps []struct {
		Step        int    `json:"step"`
		Description string `json:"description"`
	} `json:"steps"`
	Resources []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"resources"`
	Tips          []string `json:"tips"`
	EstimatedTime string   `json:"estimated_time"`
	Difficulty    string   `json:"difficulty_level"`
}

// NormalizeTaskList converts a raw model reply into a validated, ordered
// sequence of task drafts.
//
// The upstream service is only informally contracted to emit JSON, so a
// syntactically malformed reply is not an error here: it degrades to a single
// fallback draft titled FallbackTitle carrying the raw reply as its
// description. This trades fidelity for availability so a user-visible
// request never fails purely due to upstream formatting drift.
//
// A reply that parses but contains a record without a title, or with an
// out-of-range progress value, fails the whole batch with a ParseError:
// records with structural problems are never silently dropped or guessed at.
func NormalizeTaskList(raw string) ([]domain.TaskDraft, error) {
	drafts, err := ParseTaskList(raw)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) && parseErr.Kind == ParseErrNotJSON {
			return []domain.TaskDraft{{
				Title:       FallbackTitle,
				Description: raw,
				Priority:    domain.PriorityMedium,
			}}, nil
		}
		return nil, err
	}
	return drafts, nil
}

// ParseTaskList is the strict variant of NormalizeTaskList: every failure,
// including syntactically malformed JSON, is returned as a ParseError.
// Callers that persist structural fields from the result (such as subtask
// creation) use this form, since a fallback draft cannot safely stand in for
// records that will carry parent linkage.
func ParseTaskList(raw string) ([]domain.TaskDraft, error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &records); err != nil {
		return nil, &ParseError{Kind: ParseErrNotJSON, Index: -1}
	}

	drafts := make([]domain.TaskDraft, 0, len(records))
	for i, record := range records {
		draft, err := record.toDraft(i)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, draft)
	}

	// Input ordering is preserved; the result is never re-sorted.
	return drafts, nil
}

// NormalizeAssistance converts a raw model reply into an assistance report.
//
// On any parse failure the reply degrades to a single-step report carrying
// the raw text verbatim, with empty resources and tips and unknown effort
// estimates. Same availability-over-fidelity policy as NormalizeTaskList.
func NormalizeAssistance(raw string) (*domain.AssistanceReport, error) {
	var record assistanceRecord
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &record); err != nil {
		return &domain.AssistanceReport{
			Steps: []domain.AssistanceStep{
				{Number: 1, Description: raw},
			},
			Resources:     []domain.AssistanceResource{},
			Tips:          []string{},
			EstimatedTime: fallbackEstimatedTime,
			Difficulty:    fallbackDifficulty,
		}, nil
	}

	report := &domain.AssistanceReport{
		Steps:         make([]domain.AssistanceStep, 0, len(record.Steps)),
		Resources:     make([]domain.AssistanceResource, 0, len(record.Resources)),
		Tips:          record.Tips,
		EstimatedTime: record.EstimatedTime,
		Difficulty:    record.Difficulty,
	}
	for _, step := range record.Steps {
		report.Steps = append(report.Steps, domain.AssistanceStep{
			Number:      step.Step,
			Description: step.Description,
		})
	}
	for _, res := range record.Resources {
		report.Resources = append(report.Resources, domain.AssistanceResource{
			Title:       res.Title,
			URL:         res.URL,
			Description: res.Description,
		})
	}
	if report.Tips == nil {
		report.Tips = []string{}
	}
	if report.EstimatedTime == "" {
		report.EstimatedTime = fallbackEstimatedTime
	}
	if report.Difficulty == "" {
		report.Difficulty = fallbackDifficulty
	}

	return report, nil
}

// toDraft validates and coerces a parsed record into a task draft.
// The index is only used for error reporting.
func (r taskRecord) toDraft(index int) (domain.TaskDraft, error) {
	if strings.TrimSpace(r.Title) == "" {
		return domain.TaskDraft{}, &ParseError{Kind: ParseErrMissingField, Field: "title", Index: index}
	}

	draft := domain.TaskDraft{
		Title:       r.Title,
		Description: r.Description,
		// Unknown priorities are coerced, not rejected (case-sensitive match)
		Priority: domain.NormalizePriority(domain.Priority(r.Priority)),
		Category: r.Category,
		Tags:     r.Tags,
		Notes:    r.Notes,
	}

	// Lenient coercion: an unparseable due date becomes absent, not an error
	if r.DueDate != "" {
		if due, ok := parseDueDate(r.DueDate); ok {
			draft.DueDate = &due
		}
	}

	if r.Progress != nil {
		if *r.Progress < 0 || *r.Progress > 100 {
			return domain.TaskDraft{}, &ParseError{Kind: ParseErrOutOfRange, Field: "progress", Index: index}
		}
		draft.Progress = *r.Progress
	}

	return draft, nil
}

// parseDueDate tries each accepted timestamp layout in order.
func parseDueDate(value string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// stripCodeFences removes a surrounding markdown code fence from a model
// reply. Models frequently wrap JSON in ```json fences even when asked not
// to; the content between the fences is what gets parsed.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop a language tag such as "json" on the opening fence
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || isFenceLanguageTag(firstLine) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// isFenceLanguageTag reports whether the text looks like a code-fence
// language tag rather than content.
func isFenceLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) <= 10
}
