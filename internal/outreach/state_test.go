package outreach

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateKind_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "generating", StateGenerating.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", StateKind(42).String())
}

func TestState_MarshalJSON_Idle(t *testing.T) {
	data, err := json.Marshal(State{Kind: StateIdle})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"idle"}`, string(data))
}

func TestState_MarshalJSON_Failed(t *testing.T) {
	id := uuid.MustParse("6f1c5a0e-8a53-4d2b-9b7c-1d2e3f405060")
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := State{
		Kind:         StateFailed,
		GenerationID: id,
		Tone:         types.ToneEdgy,
		Err:          &TransportError{Message: "boom", Cause: errors.New("401")},
		Stage:        StageTransport,
		StartedAt:    started,
		FinishedAt:   started.Add(250 * time.Millisecond),
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "failed", decoded["state"])
	assert.Equal(t, id.String(), decoded["generationId"])
	assert.Equal(t, "edgy", decoded["tone"])
	assert.Equal(t, "transport", decoded["stage"])
	assert.Equal(t, "model call failed: boom: 401", decoded["error"])
	assert.Equal(t, float64(250), decoded["durationMs"])
	assert.NotContains(t, decoded, "result")
}

func TestState_MarshalJSON_Succeeded(t *testing.T) {
	state := State{
		Kind:   StateSucceeded,
		Result: &types.GenerationResult{Subject: "s", Email: "e"},
	}

	data, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"result":{"subject":"s","email":"e","strategyNote":"","followUp3Day":"","followUp7Day":""}`)
}

func TestState_Predicates(t *testing.T) {
	assert.True(t, State{Kind: StateGenerating}.Generating())
	assert.False(t, State{Kind: StateGenerating}.Terminal())
	assert.True(t, State{Kind: StateSucceeded}.Terminal())
	assert.True(t, State{Kind: StateFailed}.Terminal())
	assert.False(t, State{Kind: StateIdle}.Terminal())
	assert.Zero(t, State{Kind: StateGenerating, StartedAt: time.Now()}.Duration())
}
