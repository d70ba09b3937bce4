package types

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tone
		wantErr bool
	}{
		{name: "professional", input: "professional", want: ToneProfessional},
		{name: "mixed case", input: "StartUp", want: ToneStartup},
		{name: "padded", input: "  edgy ", want: ToneEdgy},
		{name: "empty defaults", input: "", want: DefaultTone},
		{name: "unknown", input: "casual", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTone(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTones_AllValid(t *testing.T) {
	tones := Tones()
	assert.Len(t, tones, 3)
	for _, tone := range tones {
		assert.True(t, tone.Valid(), "tone %s should be valid", tone)
	}
	assert.False(t, Tone("formal").Valid())
}

func TestGenerationRequest_Validate(t *testing.T) {
	valid := GenerationRequest{JobDescription: "jd", Profile: "me", Tone: ToneEdgy}
	require.NoError(t, valid.Validate())

	missingJD := GenerationRequest{Profile: "me", Tone: ToneEdgy}
	err := missingJD.Validate()
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "JobDescription", verrs[0].Field())

	badTone := GenerationRequest{JobDescription: "jd", Profile: "me", Tone: "loud"}
	assert.Error(t, badTone.Validate())
}

func TestGenerationRequest_Normalized(t *testing.T) {
	req := GenerationRequest{JobDescription: "  jd \n", Profile: "\tme "}.Normalized()
	assert.Equal(t, "jd", req.JobDescription)
	assert.Equal(t, "me", req.Profile)
	assert.Equal(t, DefaultTone, req.Tone)
}

func TestGenerationRequest_Ready(t *testing.T) {
	assert.True(t, GenerationRequest{JobDescription: "a", Profile: "b"}.Ready())
	assert.False(t, GenerationRequest{JobDescription: "a", Profile: "   "}.Ready())
	assert.False(t, GenerationRequest{Profile: "b"}.Ready())
}

func TestGenerationResult_JSONKeys(t *testing.T) {
	result := GenerationResult{
		Subject:      "s",
		Email:        "e",
		StrategyNote: "n",
		FollowUp3Day: "f3",
		FollowUp7Day: "f7",
	}

	jsonBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Len(t, decoded, len(ResultFields()))
	for _, key := range ResultFields() {
		assert.Contains(t, decoded, key)
	}
}

func TestGenerationResult_PrimaryEmail(t *testing.T) {
	result := &GenerationResult{Subject: "Question about Docs AI", Email: "Hi Sam"}
	assert.Equal(t, "Question about Docs AI\n\nHi Sam", result.PrimaryEmail())

	var nilResult *GenerationResult
	assert.Equal(t, "", nilResult.PrimaryEmail())
}
