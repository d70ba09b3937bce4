package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// SourceKind names where an input came from.
type SourceKind string

const (
	SourceInline SourceKind = "inline"
	SourceFile   SourceKind = "file"
	SourceURL    SourceKind = "url"
)

// Metadata describes an ingested input.
type Metadata struct {
	Source    SourceKind `json:"source"`
	Path      string     `json:"path,omitempty"`
	URL       string     `json:"url,omitempty"`
	Board     string     `json:"board,omitempty"`
	Rendered  bool       `json:"rendered,omitempty"`
	FromCache bool       `json:"fromCache,omitempty"`
	Chars     int        `json:"chars"`
	Hash      string     `json:"hash"`
	Timestamp time.Time  `json:"timestamp"`
}

// NewMetadata stamps text with its hash, length and the current time.
func NewMetadata(kind SourceKind, text string) *Metadata {
	return &Metadata{
		Source:    kind,
		Chars:     len([]rune(text)),
		Hash:      computeHash(text),
		Timestamp: time.Now().UTC(),
	}
}

func computeHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
