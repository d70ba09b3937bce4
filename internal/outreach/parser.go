package outreach

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/outreach-forge/internal/schemas"
	"github.com/jonathan/outreach-forge/internal/types"
)

// ParseResult decodes raw model output into a GenerationResult.
//
// Empty or whitespace-only text is read as the empty object. Decoding is strict: the text
// must be a JSON object holding exactly the five GenerationResult keys, each a string
// (empty strings are allowed). Anything else is a *MalformedResponseError.
func ParseResult(raw string) (*types.GenerationResult, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		text = "{}"
	}

	if !json.Valid([]byte(text)) {
		var decoded any
		err := json.Unmarshal([]byte(text), &decoded)
		return nil, &MalformedResponseError{
			Message: "response is not valid JSON",
			Raw:     raw,
			Cause:   err,
		}
	}

	if err := schemas.ValidateGenerationResult(text); err != nil {
		return nil, &MalformedResponseError{
			Message: "response does not match the GenerationResult schema",
			Raw:     raw,
			Cause:   err,
		}
	}

	var result types.GenerationResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &MalformedResponseError{
			Message: "failed to decode GenerationResult",
			Raw:     raw,
			Cause:   err,
		}
	}

	return &result, nil
}
