package generation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskwise/taskwise-api/internal/domain"
)

func TestNormalizeTaskList_ValidReply(t *testing.T) {
	t.Parallel()

	raw := `[
		{"title": "Book flights", "description": "Compare fares", "priority": "High", "category": "Travel", "tags": ["trip"], "progress": 25},
		{"title": "Reserve hotel", "priority": "Low"}
	]`

	drafts, err := NormalizeTaskList(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Book flights", drafts[0].Title)
	assert.Equal(t, "Compare fares", drafts[0].Description)
	assert.Equal(t, domain.PriorityHigh, drafts[0].Priority)
	assert.Equal(t, "Travel", drafts[0].Category)
	assert.Equal(t, []string{"trip"}, drafts[0].Tags)
	assert.Equal(t, 25, drafts[0].Progress)

	assert.Equal(t, "Reserve hotel", drafts[1].Title)
	assert.Equal(t, domain.PriorityLow, drafts[1].Priority)
}

func TestNormalizeTaskList_PreservesOrder(t *testing.T) {
	t.Parallel()

	raw := `[{"title": "c"}, {"title": "a"}, {"title": "b"}]`

	drafts, err := NormalizeTaskList(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	assert.Equal(t, "c", drafts[0].Title)
	assert.Equal(t, "a", drafts[1].Title)
	assert.Equal(t, "b", drafts[2].Title)
}

func TestNormalizeTaskList_MalformedReplyFallsBack(t *testing.T) {
	t.Parallel()

	raw := "Sure! Here are some tasks for your trip."

	drafts, err := NormalizeTaskList(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, FallbackTitle, drafts[0].Title)
	assert.Equal(t, raw, drafts[0].Description)
	assert.Equal(t, domain.PriorityMedium, drafts[0].Priority)
}

func TestNormalizeTaskList_UnknownPriorityCoerced(t *testing.T) {
	t.Parallel()

	drafts, err := NormalizeTaskList(`[{"title": "A", "priority": "Urgent"}]`)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, domain.PriorityMedium, drafts[0].Priority)

	// Priority matching is case-sensitive, so "high" is unknown
	drafts, err = NormalizeTaskList(`[{"title": "A", "priority": "high"}]`)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, drafts[0].Priority)
}

func TestNormalizeTaskList_MissingTitleFailsBatch(t *testing.T) {
	t.Parallel()

	_, err := NormalizeTaskList(`[{"title": "Good"}, {"description": "No title here"}]`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrMissingField, parseErr.Kind)
	assert.Equal(t, "title", parseErr.Field)
	assert.Equal(t, 1, parseErr.Index)

	// A whitespace-only title is treated as missing
	_, err = NormalizeTaskList(`[{"title": "   "}]`)
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrMissingField, parseErr.Kind)
}

func TestNormalizeTaskList_ProgressOutOfRangeFailsBatch(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		`[{"title": "A", "progress": -1}]`,
		`[{"title": "A", "progress": 101}]`,
	} {
		_, err := NormalizeTaskList(raw)
		require.Error(t, err, "input: %s", raw)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, ParseErrOutOfRange, parseErr.Kind)
		assert.Equal(t, "progress", parseErr.Field)
	}
}

func TestNormalizeTaskList_DueDateCoercion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want *time.Time
	}{
		{
			name: "RFC3339",
			raw:  `[{"title": "A", "due_date": "2026-03-15T12:00:00Z"}]`,
			want: timePtr(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "date only",
			raw:  `[{"title": "A", "due_date": "2026-03-15"}]`,
			want: timePtr(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)),
		},
		{
			name: "no timezone",
			raw:  `[{"title": "A", "due_date": "2026-03-15T12:00:00"}]`,
			want: timePtr(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "unparseable becomes absent",
			raw:  `[{"title": "A", "due_date": "next Tuesday"}]`,
			want: nil,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			drafts, err := NormalizeTaskList(tc.raw)
			require.NoError(t, err)
			require.Len(t, drafts, 1)

			if tc.want == nil {
				assert.Nil(t, drafts[0].DueDate)
			} else {
				require.NotNil(t, drafts[0].DueDate)
				assert.True(t, drafts[0].DueDate.Equal(*tc.want))
			}
		})
	}
}

func TestNormalizeTaskList_StripsCodeFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n[{\"title\": \"Fenced\"}]\n```"

	drafts, err := NormalizeTaskList(raw)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Fenced", drafts[0].Title)
}

func TestParseTaskList_StrictOnMalformedReply(t *testing.T) {
	t.Parallel()

	_, err := ParseTaskList("not json at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ParseErrNotJSON, parseErr.Kind)
}

func TestParseTaskList_EmptyArray(t *testing.T) {
	t.Parallel()

	drafts, err := ParseTaskList(`[]`)
	require.NoError(t, err)
	assert.Empty(t, drafts)
	assert.NotNil(t, drafts)
}

func TestNormalizeAssistance_ValidReply(t *testing.T) {
	t.Parallel()

	raw := `{
		"steps": [
			{"step": 1, "description": "Outline the essay"},
			{"step": 2, "description": "Write the draft"}
		],
		"resources": [{"title": "Style guide", "url": "https://example.com", "description": "Reference"}],
		"tips": ["Start early"],
		"estimated_time": "2 hours",
		"difficulty_level": "Easy"
	}`

	report, err := NormalizeAssistance(raw)
	require.NoError(t, err)

	require.Len(t, report.Steps, 2)
	assert.Equal(t, 1, report.Steps[0].Number)
	assert.Equal(t, "Outline the essay", report.Steps[0].Description)
	require.Len(t, report.Resources, 1)
	assert.Equal(t, "Style guide", report.Resources[0].Title)
	assert.Equal(t, []string{"Start early"}, report.Tips)
	assert.Equal(t, "2 hours", report.EstimatedTime)
	assert.Equal(t, "Easy", report.Difficulty)
}

func TestNormalizeAssistance_MalformedReplyFallsBack(t *testing.T) {
	t.Parallel()

	raw := "First, outline the essay. Then write it."

	report, err := NormalizeAssistance(raw)
	require.NoError(t, err)

	require.Len(t, report.Steps, 1)
	assert.Equal(t, 1, report.Steps[0].Number)
	assert.Equal(t, raw, report.Steps[0].Description)
	assert.Empty(t, report.Resources)
	assert.Empty(t, report.Tips)
	assert.Equal(t, "Unknown", report.EstimatedTime)
	assert.Equal(t, "Medium", report.Difficulty)
}

func TestNormalizeAssistance_FillsMissingFields(t *testing.T) {
	t.Parallel()

	report, err := NormalizeAssistance(`{"steps": [{"step": 1, "description": "Do it"}]}`)
	require.NoError(t, err)

	assert.NotNil(t, report.Resources)
	assert.NotNil(t, report.Tips)
	assert.Equal(t, "Unknown", report.EstimatedTime)
	assert.Equal(t, "Medium", report.Difficulty)
}

func TestParseErrorUnwrapsToInvalidResponse(t *testing.T) {
	t.Parallel()

	err := error(&ParseError{Kind: ParseErrMissingField, Field: "title", Index: 0})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
