package generation

import "context"

// Completer defines the interface for the external text-generation service.
// This interface serves as a boundary between the application core and the
// LLM platform package: the core hands over a fully built prompt and gets
// back the model's raw reply text, which the normalizer then validates.
type Completer interface {
	// Complete sends the prompt to the generation service and returns the
	// raw reply text. Implementations are expected to bound the call with a
	// timeout and to retry transient transport errors; exhausted retries,
	// timeouts, and safety blocks surface as errors from this package
	// (ErrTransientFailure, ErrContentBlocked, ErrInvalidResponse).
	Complete(ctx context.Context, prompt string) (string, error)
}
