package lounge

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/focus-lounge/internal/domain"
)

// Snapshot is everything the lounge shows at one instant.
type Snapshot struct {
	Profile      domain.Profile
	Messages     []domain.ChatMessage
	Viewers      int
	Workers      int
	Working      bool
	ChatOpen     bool
	Notification domain.NotificationState
}

type RenderOptions struct {
	Now          time.Time
	PresenceOnly bool
}

func renderView(snap Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Focus Lounge"),
		renderPresence(snap, s),
	}
	if opts.PresenceOnly {
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.section.Render(renderFeed(snap.Messages, snap.Profile, opts.Now, s)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPresence(snap Snapshot, s styles) string {
	parts := []string{
		s.count.Render(fmt.Sprintf("%d", snap.Viewers)),
		s.header.Render(" " + plural(snap.Viewers, "person", "people") + " in the lounge, "),
		s.count.Render(fmt.Sprintf("%d", snap.Workers)),
		s.header.Render(" focusing"),
	}
	if snap.Working {
		parts = append(parts, " ", s.working.Render("[you are focusing]"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderFeed(messages []domain.ChatMessage, self domain.Profile, now time.Time, s styles) string {
	if len(messages) == 0 {
		return s.empty.Render("No messages yet. Say hello.")
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, messageLine(msg, self, now, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func messageLine(msg domain.ChatMessage, self domain.Profile, now time.Time, s styles) string {
	author := s.author
	if self.AuthorID != "" && msg.AuthorID == self.AuthorID {
		author = s.self
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.timestamp.Render(formatAge(msg.CreatedAt, now)),
		" ",
		author.Render(clean(msg.Author())+":"),
		" ",
		s.text.Render(clean(msg.Text)),
	)
}

func renderBubble(state domain.NotificationState, s styles) string {
	if !state.Visible || state.Current == nil {
		return ""
	}

	style := s.bubble
	if state.Phase == domain.PhaseFadingOut {
		style = s.bubbleFade
	}
	msg := state.Current
	return style.Render(s.author.Render(clean(msg.Author())) + "\n" + s.text.Render(clean(msg.Text)))
}

// formatAge prints a clock time when now is unknown, otherwise a relative age.
func formatAge(at, now time.Time) string {
	if at.IsZero() {
		return "--:--"
	}
	if now.IsZero() {
		return at.Local().Format("15:04")
	}

	elapsed := now.Sub(at)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		minutes := int(elapsed / time.Minute)
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute", "minutes"))
	case elapsed < 24*time.Hour:
		hours := int(elapsed / time.Hour)
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour", "hours"))
	default:
		return at.Local().Format("15:04 on 02 Jan")
	}
}

// clean drops control characters so remote text cannot move the cursor.
func clean(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func hintLine(chatOpen bool, s styles) string {
	keys := []string{"tab chat", "esc dismiss", "ctrl+w focus", "ctrl+c quit"}
	if chatOpen {
		keys = []string{"enter send", "tab/esc close", "ctrl+w focus", "ctrl+c quit"}
	}
	return s.hint.Render(strings.Join(keys, "  "))
}
