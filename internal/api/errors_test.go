package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/generation"
	"github.com/taskwise/taskwise-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", store.ErrTaskNotFound), http.StatusNotFound},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"progress out of range", domain.ErrProgressOutOfRange, http.StatusBadRequest},
		{"empty title", domain.ErrTaskTitleEmpty, http.StatusBadRequest},
		{"empty prompt", generation.ErrEmptyPrompt, http.StatusBadRequest},
		{"invalid entity", store.ErrInvalidEntity, http.StatusBadRequest},
		{"generation failed", generation.ErrGenerationFailed, http.StatusInternalServerError},
		{"invalid response", generation.ErrInvalidResponse, http.StatusInternalServerError},
		{"parse error", &generation.ParseError{Kind: generation.ParseErrMissingField, Field: "title"}, http.StatusInternalServerError},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Progress must be between 0 and 100", GetSafeErrorMessage(domain.ErrProgressOutOfRange))
	assert.Equal(t, "Generation service failure", GetSafeErrorMessage(generation.ErrGenerationFailed))

	// Internal details never leak through
	leaky := errors.New("pq: connection to postgres://admin:secret@db failed")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := validator.New().Struct(CreateTaskRequest{})
	assert.Equal(t, "Invalid Title: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
