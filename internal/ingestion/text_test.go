package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: " \n\t\n", expected: ""},
		{name: "collapses inner spaces", input: "Line    with \t multiple   spaces", expected: "Line with multiple spaces"},
		{name: "normalizes line endings", input: "a\r\nb\rc", expected: "a\nb\nc"},
		{name: "limits blank lines", input: "Line 1\n\n\n\n\nLine 2", expected: "Line 1\n\nLine 2"},
		{name: "keeps headings", input: "  # Title\n## Subtitle", expected: "# Title\n## Subtitle"},
		{name: "keeps bullet indentation", input: "- Item 1\n  - Nested", expected: "- Item 1\n  - Nested"},
		{name: "converts bullet glyphs", input: "• Python\n· Gemini API", expected: "- Python\n- Gemini API"},
		{name: "replaces non-breaking spaces", input: "Series A", expected: "Series A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.txt")
	require.NoError(t, os.WriteFile(path, []byte("Intern   role\r\n\r\n\r\nPython"), 0644))

	text, meta, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Intern role\n\nPython", text)
	assert.Equal(t, SourceFile, meta.Source)
	assert.Equal(t, path, meta.Path)
	assert.Equal(t, len(text), meta.Chars)
	assert.Len(t, meta.Hash, 64)
}

func TestReadFile_NotFound(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestNewMetadata_HashIsStable(t *testing.T) {
	a := NewMetadata(SourceInline, "same text")
	b := NewMetadata(SourceInline, "same text")
	c := NewMetadata(SourceInline, "other text")

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.Equal(t, 9, a.Chars)
}
