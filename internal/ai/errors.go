package ai

import (
	"errors"

	"whiteboard2web/internal/ai/normalizer"
)

var (
	// ErrMissingAPIKey means no credential was configured for the completion endpoint.
	ErrMissingAPIKey = errors.New("API key not configured")
	// ErrTransport covers non-2xx responses, network errors, timeouts and empty completions.
	ErrTransport = errors.New("completion request failed")
	// ErrMalformedResponse means the completion could not be turned into a project.
	ErrMalformedResponse = normalizer.ErrMalformedResponse

	errEmptyCompletion = errors.New("model returned empty response")
)
