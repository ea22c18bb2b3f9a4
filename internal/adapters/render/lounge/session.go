package lounge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/focus-lounge/internal/domain"
)

// Session is the live lounge the interactive view drives.
type Session interface {
	Profile() domain.Profile
	ChatFeed() []domain.ChatMessage
	PresenceCount(cohort domain.Cohort) int
	NotificationState() domain.NotificationState
	ChatOpen() bool
	Working() bool
	SendMessage(ctx context.Context, text string) (domain.ChatMessage, error)
	SetWorking(ctx context.Context, working bool) error
	DismissNotification()
	OpenChat()
	CloseChat()
	Watch(fn func()) (cancel func())
}

type refreshMsg struct{}

type sendDoneMsg struct {
	draft   string
	trimmed bool
	err     error
}

type workingDoneMsg struct {
	err error
}

type sessionModel struct {
	ctx     context.Context
	session Session
	input   textinput.Model
	styles  styles
	snap    Snapshot
	status  string
	sending bool
	height  int
	now     func() time.Time
}

func newSessionModel(ctx context.Context, session Session, now func() time.Time) sessionModel {
	s := newStyles()

	ti := textinput.New()
	ti.Placeholder = "Say something to the lounge..."
	ti.Prompt = "> "
	ti.PromptStyle = s.prompt
	// CharLimit counts runes; astral characters are two units each and the
	// overflow is reported on send.
	ti.CharLimit = domain.MaxMessageLength
	ti.Width = 60

	m := sessionModel{
		ctx:     ctx,
		session: session,
		input:   ti,
		styles:  s,
		now:     now,
	}
	m.snap = takeSnapshot(session)
	if m.snap.ChatOpen {
		m.input.Focus()
	}
	return m
}

func takeSnapshot(session Session) Snapshot {
	return Snapshot{
		Profile:      session.Profile(),
		Messages:     session.ChatFeed(),
		Viewers:      session.PresenceCount(domain.CohortViewers),
		Workers:      session.PresenceCount(domain.CohortWorkers),
		Working:      session.Working(),
		ChatOpen:     session.ChatOpen(),
		Notification: session.NotificationState(),
	}
}

func (m sessionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 10)
		return m, nil
	case refreshMsg:
		m.snap = takeSnapshot(m.session)
		return m, nil
	case sendDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.status = fmt.Sprintf("send failed: %v", msg.err)
			return m, nil
		}
		m.status = ""
		if msg.trimmed {
			m.status = fmt.Sprintf("message trimmed to %d characters", domain.MaxMessageLength)
		}
		if m.input.Value() == msg.draft {
			m.input.Reset()
		}
		m.snap = takeSnapshot(m.session)
		return m, nil
	case workingDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("focus toggle failed: %v", msg.err)
		}
		m.snap = takeSnapshot(m.session)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m sessionModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setChatOpen(!m.session.ChatOpen())
		return m, nil
	case "esc":
		if m.session.ChatOpen() {
			m.setChatOpen(false)
		} else {
			m.session.DismissNotification()
		}
		m.snap = takeSnapshot(m.session)
		return m, nil
	case "ctrl+w":
		return m, m.toggleWorking(!m.session.Working())
	case "enter":
		if !m.session.ChatOpen() || m.sending {
			return m, nil
		}
		draft := m.input.Value()
		if strings.TrimSpace(draft) == "" {
			return m, nil
		}
		m.sending = true
		m.status = ""
		return m, m.send(draft)
	}

	if !m.session.ChatOpen() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *sessionModel) setChatOpen(open bool) {
	if open {
		m.session.OpenChat()
		m.input.Focus()
	} else {
		m.session.CloseChat()
		m.input.Blur()
	}
	m.snap = takeSnapshot(m.session)
}

func (m sessionModel) send(draft string) tea.Cmd {
	ctx, session := m.ctx, m.session
	trimmed := domain.UTF16Len(strings.TrimSpace(draft)) > domain.MaxMessageLength
	return func() tea.Msg {
		_, err := session.SendMessage(ctx, draft)
		return sendDoneMsg{draft: draft, trimmed: trimmed, err: err}
	}
}

func (m sessionModel) toggleWorking(working bool) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		return workingDoneMsg{err: session.SetWorking(ctx, working)}
	}
}

func (m sessionModel) View() string {
	s := m.styles
	lines := []string{
		s.title.Render("Focus Lounge"),
		renderPresence(m.snap, s),
	}

	if m.snap.ChatOpen {
		lines = append(lines,
			s.section.Render(renderFeed(m.visibleMessages(), m.snap.Profile, m.now(), s)),
			s.section.Render(m.input.View()),
		)
	} else if bubble := renderBubble(m.snap.Notification, s); bubble != "" {
		lines = append(lines, bubble)
	}

	if m.status != "" {
		lines = append(lines, s.warning.Render(m.status))
	}
	lines = append(lines, s.section.Render(hintLine(m.snap.ChatOpen, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// visibleMessages keeps the newest messages that fit above the input.
func (m sessionModel) visibleMessages() []domain.ChatMessage {
	messages := m.snap.Messages
	if m.height <= 0 {
		return messages
	}
	room := max(m.height-8, 1)
	if len(messages) > room {
		messages = messages[len(messages)-room:]
	}
	return messages
}

// Run drives session interactively until the user quits or ctx ends.
func Run(ctx context.Context, session Session, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newSessionModel(ctx, session, time.Now),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	dirty := make(chan struct{}, 1)
	stop := session.Watch(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	defer stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
				p.Send(refreshMsg{})
			}
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run lounge: %w", err)
	}
	return nil
}
