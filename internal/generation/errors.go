package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate content from prompt")

	// ErrInvalidResponse is returned when the model response cannot be parsed
	// into the expected shape. ParseError values unwrap to this sentinel.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the completer configuration is invalid
	ErrInvalidConfig = errors.New("invalid completer configuration")

	// ErrEmptyPrompt is returned when a caller supplies an empty prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)

// ParseErrorKind classifies why a model reply failed normalization.
type ParseErrorKind string

// The three normalization failure classes. NotJSON failures are absorbed by
// the lenient fallback; MissingField and OutOfRangeValue fail the whole batch
// rather than silently dropping or guessing records.
const (
	ParseErrNotJSON      ParseErrorKind = "not_json"
	ParseErrMissingField ParseErrorKind = "missing_field"
	ParseErrOutOfRange   ParseErrorKind = "out_of_range_value"
)

// ParseError describes a normalization failure with enough context to decide
// between fallback and hard failure. It unwraps to ErrInvalidResponse so
// callers can match the whole family with errors.Is.
type ParseError struct {
	Kind  ParseErrorKind
	Field string // offending field, when known
	Index int    // record index within the batch, -1 when not applicable
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseErrNotJSON:
		return "model reply is not valid JSON"
	case ParseErrMissingField:
		return fmt.Sprintf("record %d is missing required field %q", e.Index, e.Field)
	case ParseErrOutOfRange:
		return fmt.Sprintf("record %d has out-of-range value for %q", e.Index, e.Field)
	default:
		return fmt.Sprintf("malformed model reply (%s)", e.Kind)
	}
}

// Unwrap supports errors.Is(err, ErrInvalidResponse).
func (e *ParseError) Unwrap() error {
	return ErrInvalidResponse
}
