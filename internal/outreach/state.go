package outreach

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/types"
)

// StateKind tags the active variant of State
type StateKind int

const (
	// StateIdle is the initial state; nothing has been generated yet
	StateIdle StateKind = iota
	// StateGenerating means a model call is in flight
	StateGenerating
	// StateSucceeded holds the latest GenerationResult
	StateSucceeded
	// StateFailed holds the reason the latest generation failed
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateGenerating:
		return "generating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k StateKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is an immutable snapshot of the generation lifecycle.
// Result is set only for StateSucceeded; Err and Stage only for StateFailed.
type State struct {
	Kind         StateKind
	GenerationID uuid.UUID
	Tone         types.Tone
	Result       *types.GenerationResult
	Err          error
	Stage        FailureStage
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Generating reports whether a generation is in flight
func (s State) Generating() bool {
	return s.Kind == StateGenerating
}

// Terminal reports whether the state is Succeeded or Failed
func (s State) Terminal() bool {
	return s.Kind == StateSucceeded || s.Kind == StateFailed
}

// Duration returns how long the generation took, or zero while it is still running.
func (s State) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

type stateJSON struct {
	State        StateKind               `json:"state"`
	GenerationID string                  `json:"generationId,omitempty"`
	Tone         types.Tone              `json:"tone,omitempty"`
	Result       *types.GenerationResult `json:"result,omitempty"`
	Error        string                  `json:"error,omitempty"`
	Stage        FailureStage            `json:"stage,omitempty"`
	StartedAt    *time.Time              `json:"startedAt,omitempty"`
	FinishedAt   *time.Time              `json:"finishedAt,omitempty"`
	DurationMS   int64                   `json:"durationMs,omitempty"`
}

// MarshalJSON renders the snapshot for the HTTP surface
func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		State:      s.Kind,
		Tone:       s.Tone,
		Result:     s.Result,
		Stage:      s.Stage,
		DurationMS: s.Duration().Milliseconds(),
	}
	if s.GenerationID != uuid.Nil {
		out.GenerationID = s.GenerationID.String()
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}
	if !s.StartedAt.IsZero() {
		startedAt := s.StartedAt
		out.StartedAt = &startedAt
	}
	if !s.FinishedAt.IsZero() {
		finishedAt := s.FinishedAt
		out.FinishedAt = &finishedAt
	}
	return json.Marshal(out)
}
