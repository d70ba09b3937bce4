package ingestion

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// MaxFileBytes caps how much of an input file is read.
const MaxFileBytes = 1 << 20

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankRun    = regexp.MustCompile(`\n{3,}`)
	bulletGlyph = regexp.MustCompile(`^[•·▪‣◦]\s*`)
)

// CleanText normalizes pasted or scraped text: unified line endings, collapsed
// runs of spaces, at most one blank line between paragraphs and "- " bullets.
// Leading indentation of bullet lines is kept.
func CleanText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	indent := len(line) - len(strings.TrimLeft(line, " \t"))

	if bulletGlyph.MatchString(trimmed) {
		trimmed = "- " + bulletGlyph.ReplaceAllString(trimmed, "")
	}
	trimmed = innerSpace.ReplaceAllString(trimmed, " ")

	if isBullet(trimmed) && indent > 0 {
		return strings.Repeat(" ", indent) + trimmed
	}
	return trimmed
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}

// ReadFile reads and cleans a text file. A path of "-" reads stdin.
func ReadFile(path string) (string, *Metadata, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", nil, fmt.Errorf("file not found: %w", err)
			}
			return "", nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileBytes))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := CleanText(string(data))
	meta := NewMetadata(SourceFile, text)
	meta.Path = path
	return text, meta, nil
}
