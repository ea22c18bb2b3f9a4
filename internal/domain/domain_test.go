package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMessageTextRejectsBlank(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t "} {
		_, err := NormalizeMessageText(raw)
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
}

func TestNormalizeMessageTextTruncates(t *testing.T) {
	text, err := NormalizeMessageText("  " + strings.Repeat("a", 200) + "  ")
	require.NoError(t, err)

	assert.Equal(t, MaxMessageLength, UTF16Len(text))
	assert.Equal(t, strings.Repeat("a", MaxMessageLength), text)
}

func TestTruncateUTF16(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short input unchanged", input: "hello", limit: 10, want: "hello"},
		{name: "ascii cut", input: "hello world", limit: 5, want: "hello"},
		{name: "bmp rune counts once", input: "héllo", limit: 2, want: "hé"},
		{name: "surrogate pair kept whole", input: "ab😀c", limit: 4, want: "ab😀"},
		{name: "surrogate pair never split", input: "ab😀c", limit: 3, want: "ab"},
		{name: "zero limit", input: "abc", limit: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateUTF16(tt.input, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, UTF16Len(got), max(tt.limit, 0))
		})
	}
}

func TestCohortChannel(t *testing.T) {
	assert.Equal(t, "online-users", CohortViewers.Channel())
	assert.Equal(t, "working-users", CohortWorkers.Channel())

	c, err := ParseCohort("workers")
	require.NoError(t, err)
	assert.Equal(t, CohortWorkers, c)

	_, err = ParseCohort("lurkers")
	require.ErrorIs(t, err, ErrInvalidCohort)
}

func TestPresenceSnapshotKeysCollapseDuplicates(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	s := PresenceSnapshot{Records: []PresenceRecord{
		{SessionKey: a, JoinedAt: now},
		{SessionKey: a, JoinedAt: now.Add(time.Second)},
		{SessionKey: b, JoinedAt: now},
	}}

	assert.Len(t, s.Keys(), 2)
}

func TestMessageAuthorFallback(t *testing.T) {
	assert.Equal(t, "Mia", ChatMessage{DisplayName: " Mia "}.Author())
	assert.Equal(t, "anonymous", ChatMessage{}.Author())
	assert.Equal(t, "12345678", ChatMessage{AuthorID: "1234567890"}.Author())
}

func TestNotificationPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "showing", PhaseShowing.String())
	assert.Equal(t, "fading_out", PhaseFadingOut.String())
}

func TestNormalizeDisplayName(t *testing.T) {
	assert.Equal(t, DefaultDisplayName, NormalizeDisplayName("  "))
	assert.Equal(t, "Sam", NormalizeDisplayName(" Sam "))
	assert.Equal(t, MaxDisplayNameLength, UTF16Len(NormalizeDisplayName(strings.Repeat("x", 50))))
}
