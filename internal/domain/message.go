package domain

import (
	"strings"
	"time"
	"unicode/utf16"
)

// MaxMessageLength is measured in UTF-16 code units.
const MaxMessageLength = 140

type MessageOrigin string

const (
	OriginRemote    MessageOrigin = "remote"
	OriginSynthetic MessageOrigin = "synthetic"
)

type ChatMessage struct {
	ID          string
	AuthorID    string
	DisplayName string
	Text        string
	CreatedAt   time.Time
	Origin      MessageOrigin
}

func (m ChatMessage) IsSynthetic() bool {
	return m.Origin == OriginSynthetic
}

// Author returns the display name, falling back to a short form of the
// author id for messages stored without a name.
func (m ChatMessage) Author() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	if m.AuthorID == "" {
		return "anonymous"
	}
	if len(m.AuthorID) > 8 {
		return m.AuthorID[:8]
	}
	return m.AuthorID
}

type MessageDraft struct {
	AuthorID    string
	DisplayName string
	Text        string
}

// NormalizeMessageText trims surrounding whitespace and truncates to
// MaxMessageLength. Whitespace-only input is rejected.
func NormalizeMessageText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrEmptyMessage
	}
	return TruncateUTF16(text, MaxMessageLength), nil
}

func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// TruncateUTF16 keeps at most limit UTF-16 code units and never splits a
// surrogate pair.
func TruncateUTF16(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	units := 0
	for i, r := range s {
		size := utf16.RuneLen(r)
		if size < 0 {
			size = 1
		}
		if units+size > limit {
			return s[:i]
		}
		units += size
	}
	return s
}
