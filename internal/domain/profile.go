package domain

import "strings"

const DefaultDisplayName = "Anonymous"

// MaxDisplayNameLength is measured in UTF-16 code units.
const MaxDisplayNameLength = 32

type Profile struct {
	AuthorID    string
	DisplayName string
}

func (p Profile) Draft(text string) MessageDraft {
	return MessageDraft{
		AuthorID:    p.AuthorID,
		DisplayName: p.DisplayName,
		Text:        text,
	}
}

func NormalizeDisplayName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return DefaultDisplayName
	}
	return TruncateUTF16(name, MaxDisplayNameLength)
}
