package interview

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request field failed validation.
	ErrValidation = errors.New("validation error")

	// ErrSessionNotFound indicates the conversation id resolves to no session.
	ErrSessionNotFound = errors.New("conversation not found")

	// ErrSessionExists indicates a session with the same id is already stored.
	ErrSessionExists = errors.New("session already exists")

	// ErrInterviewFinished indicates an answer was submitted to a session
	// whose interview has already concluded.
	ErrInterviewFinished = errors.New("interview already finished")

	// ErrUpstream indicates a transport or API failure in the dialogue
	// backend, as opposed to a safety refusal.
	ErrUpstream = errors.New("dialogue backend failure")
)

// BlockedError reports that the dialogue backend declined to generate content
// for a turn on safety grounds. Reason carries the backend's block reason as
// data; callers classify with errors.As, never by matching error text.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "content blocked by safety settings"
	}
	return fmt.Sprintf("content blocked by safety settings: %s", e.Reason)
}
