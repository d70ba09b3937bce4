package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResult = `{
  "subject": "Question about DocForge at Acme",
  "email": "Hi Sam,\n\nI noticed Acme is automating docs...",
  "strategyNote": "Lead with the automation win.",
  "followUp3Day": "Sharing an article on doc tooling.",
  "followUp7Day": "One last idea for your team."
}`

func TestGenerationResultSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(GenerationResultSchema()), &v))
	assert.Equal(t, "object", v["type"])
}

func TestValidateGenerationResult_Valid(t *testing.T) {
	assert.NoError(t, ValidateGenerationResult(validResult))
}

func TestValidateGenerationResult_EmptyStringsAllowed(t *testing.T) {
	doc := `{"subject":"","email":"","strategyNote":"","followUp3Day":"","followUp7Day":""}`
	assert.NoError(t, ValidateGenerationResult(doc))
}

func TestValidateGenerationResult_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantField string
	}{
		{
			name:      "empty object",
			doc:       `{}`,
			wantField: "(root)",
		},
		{
			name:      "missing follow up",
			doc:       `{"subject":"s","email":"e","strategyNote":"n","followUp3Day":"f"}`,
			wantField: "(root)",
		},
		{
			name:      "wrong type",
			doc:       `{"subject":42,"email":"e","strategyNote":"n","followUp3Day":"f","followUp7Day":"g"}`,
			wantField: "subject",
		},
		{
			name:      "extra key",
			doc:       `{"subject":"s","email":"e","strategyNote":"n","followUp3Day":"f","followUp7Day":"g","ps":"x"}`,
			wantField: "",
		},
		{
			name:      "array instead of object",
			doc:       `[]`,
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerationResult(tt.doc)
			require.Error(t, err)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			if tt.wantField != "" {
				assert.Contains(t, validationErr.Fields(), tt.wantField)
			}
			assert.Contains(t, validationErr.Error(), "validation failed")
		})
	}
}

func TestValidateJSONString_SchemaLoadError(t *testing.T) {
	err := ValidateJSONString(`{not a schema`, `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "(string schema)", loadErr.Path)
}

func TestValidateJSONString_Valid(t *testing.T) {
	assert.NoError(t, ValidateJSONString(GenerationResultSchema(), validResult))
}
