package outreach

import (
	"errors"
	"fmt"
)

// ErrAlreadyGenerating is returned when generate is triggered while a generation is in flight.
var ErrAlreadyGenerating = errors.New("generation already in progress")

// ErrClosed is returned when generate is triggered on a closed controller.
var ErrClosed = errors.New("controller is closed")

// ValidationError represents a request rejected before any model call was made
type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// TransportError represents a model call that could not complete.
// The underlying cause is kept for errors.Is/As but not interpreted.
type TransportError struct {
	Message string
	Cause   error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("model call failed: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError represents response text that did not decode into a GenerationResult
type MalformedResponseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// FailureStage records which pipeline stage produced a Failed state
type FailureStage string

const (
	// StageNone is used for every non-failed state
	StageNone FailureStage = ""
	// StageTransport means the model call failed
	StageTransport FailureStage = "transport"
	// StageMalformedResponse means the response text could not be parsed
	StageMalformedResponse FailureStage = "malformed_response"
	// StageUnexpected covers anything else, including recovered panics
	StageUnexpected FailureStage = "unexpected"
)

// StageOf classifies err into the pipeline stage that produced it.
func StageOf(err error) FailureStage {
	if err == nil {
		return StageNone
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return StageTransport
	}
	var malformedErr *MalformedResponseError
	if errors.As(err, &malformedErr) {
		return StageMalformedResponse
	}
	return StageUnexpected
}
