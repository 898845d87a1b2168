package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), base)

	if got := FromContext(ctx); got != base {
		t.Error("Expected FromContext to return the stored logger")
	}
}

func TestFromContext_Empty(t *testing.T) {
	t.Parallel()

	if got := FromContext(context.Background()); got == nil {
		t.Error("Expected a non-nil default logger from an empty context")
	}
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := FromContextOrDefault(context.Background(), fallback); got != fallback {
		t.Error("Expected the fallback logger for an empty context")
	}

	stored := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), stored)
	if got := FromContextOrDefault(ctx, fallback); got != stored {
		t.Error("Expected the stored logger to win over the fallback")
	}
}
