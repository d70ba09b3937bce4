package outreach

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/outreach-forge/internal/schemas"
	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult_RoundTrip(t *testing.T) {
	results := []types.GenerationResult{
		{
			Subject:      "Question about DocForge at Acme",
			Email:        "Hi Sam,\n\nI noticed Acme is **automating** docs.",
			StrategyNote: "Lead with the automation win.",
			FollowUp3Day: "Sharing an article on doc tooling.",
			FollowUp7Day: "One last idea.",
		},
		{},
		{Subject: `quotes " and \ slashes`, Email: "ünïcødé ✓"},
	}

	for _, want := range results {
		encoded, err := json.Marshal(want)
		require.NoError(t, err)

		got, err := ParseResult(string(encoded))
		require.NoError(t, err)
		assert.Equal(t, want, *got)
	}
}

func TestParseResult_Malformed(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantSchemaErr bool
	}{
		{name: "not json", raw: "not json"},
		{name: "truncated", raw: `{"subject": "hi"`},
		{name: "empty text reads as empty object", raw: "", wantSchemaErr: true},
		{name: "whitespace", raw: "  \n ", wantSchemaErr: true},
		{name: "missing fields", raw: `{"subject":"s","email":"e"}`, wantSchemaErr: true},
		{name: "null field", raw: `{"subject":null,"email":"e","strategyNote":"n","followUp3Day":"a","followUp7Day":"b"}`, wantSchemaErr: true},
		{name: "number field", raw: `{"subject":"s","email":1,"strategyNote":"n","followUp3Day":"a","followUp7Day":"b"}`, wantSchemaErr: true},
		{name: "top level array", raw: `["s"]`, wantSchemaErr: true},
		{name: "top level null", raw: `null`, wantSchemaErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseResult(tt.raw)
			assert.Nil(t, result)
			require.Error(t, err)

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.raw, malformed.Raw)
			assert.Equal(t, StageMalformedResponse, StageOf(err))

			var schemaErr *schemas.ValidationError
			assert.Equal(t, tt.wantSchemaErr, errorsAs(err, &schemaErr))
		})
	}
}

func TestParseResult_TrimsSurroundingWhitespace(t *testing.T) {
	raw := "\n  " + `{"subject":"s","email":"e","strategyNote":"n","followUp3Day":"a","followUp7Day":"b"}` + "  \n"
	result, err := ParseResult(raw)
	require.NoError(t, err)
	assert.Equal(t, "s", result.Subject)
	assert.Equal(t, "b", result.FollowUp7Day)
}
