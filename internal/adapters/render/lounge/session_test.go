package lounge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focus-lounge/internal/domain"
)

type fakeSession struct {
	mu           sync.Mutex
	messages     []domain.ChatMessage
	chatOpen     bool
	working      bool
	dismissed    int
	sendErr      error
	workingErr   error
	notification domain.NotificationState
}

func (f *fakeSession) Profile() domain.Profile {
	return domain.Profile{AuthorID: "me", DisplayName: "Me"}
}

func (f *fakeSession) ChatFeed() []domain.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChatMessage(nil), f.messages...)
}

func (f *fakeSession) PresenceCount(cohort domain.Cohort) int {
	if cohort == domain.CohortViewers {
		return 4
	}
	return 2
}

func (f *fakeSession) NotificationState() domain.NotificationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notification
}

func (f *fakeSession) ChatOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatOpen
}

func (f *fakeSession) Working() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.working
}

func (f *fakeSession) SendMessage(_ context.Context, text string) (domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return domain.ChatMessage{}, f.sendErr
	}
	msg := domain.ChatMessage{ID: text, AuthorID: "me", DisplayName: "Me", Text: text}
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeSession) SetWorking(_ context.Context, working bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.workingErr != nil {
		return f.workingErr
	}
	f.working = working
	return nil
}

func (f *fakeSession) DismissNotification() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed++
	f.notification = domain.NotificationState{Phase: domain.PhaseFadingOut, Current: f.notification.Current, Visible: f.notification.Visible}
}

func (f *fakeSession) OpenChat() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatOpen = true
}

func (f *fakeSession) CloseChat() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatOpen = false
}

func (f *fakeSession) Watch(func()) func() { return func() {} }

func fixedNow() time.Time { return time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC) }

func press(t *testing.T, m sessionModel, key tea.KeyMsg) (sessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	out, ok := next.(sessionModel)
	require.True(t, ok)
	return out, cmd
}

func runCmd(t *testing.T, m sessionModel, cmd tea.Cmd) sessionModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	out, ok := next.(sessionModel)
	require.True(t, ok)
	return out
}

func TestSessionTabTogglesChat(t *testing.T) {
	session := &fakeSession{}
	m := newSessionModel(context.Background(), session, fixedNow)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, session.ChatOpen())
	assert.True(t, m.input.Focused())
	assert.True(t, m.snap.ChatOpen)
	assert.Contains(t, m.View(), "enter send")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, session.ChatOpen())
	assert.False(t, m.input.Focused())
}

func TestSessionEnterSendsAndClearsDraft(t *testing.T) {
	session := &fakeSession{chatOpen: true}
	m := newSessionModel(context.Background(), session, fixedNow)
	m.input.SetValue("hello lounge")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.sending)
	m = runCmd(t, m, cmd)

	assert.False(t, m.sending)
	assert.Empty(t, m.input.Value())
	assert.Empty(t, m.status)
	require.Len(t, m.snap.Messages, 1)
	assert.Contains(t, m.View(), "Me: hello lounge")
}

func TestSessionReportsTrimmedEmojiDraft(t *testing.T) {
	session := &fakeSession{chatOpen: true}
	m := newSessionModel(context.Background(), session, fixedNow)
	// 100 runes, 200 UTF-16 units: within the input's rune limit but over the message limit.
	draft := strings.Repeat("🎉", 100)
	m.input.SetValue(draft)
	require.Equal(t, draft, m.input.Value())

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	assert.Empty(t, m.input.Value())
	assert.Equal(t, "message trimmed to 140 characters", m.status)
	assert.Contains(t, m.View(), "message trimmed to 140 characters")

	m.input.SetValue("short again")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.status)
	m = runCmd(t, m, cmd)
	assert.Empty(t, m.status)
}

func TestSessionSendFailureKeepsDraft(t *testing.T) {
	session := &fakeSession{chatOpen: true, sendErr: errors.New("offline")}
	m := newSessionModel(context.Background(), session, fixedNow)
	m.input.SetValue("keep me")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = runCmd(t, m, cmd)

	assert.Equal(t, "keep me", m.input.Value())
	assert.Contains(t, m.status, "offline")
	assert.Contains(t, m.View(), "send failed")
}

func TestSessionEnterIgnoresBlankOrClosedChat(t *testing.T) {
	session := &fakeSession{}
	m := newSessionModel(context.Background(), session, fixedNow)
	m.input.SetValue("not sent")

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "chat closed")

	session.OpenChat()
	m.input.SetValue("   ")
	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "blank draft")
}

func TestSessionEscDismissesBubble(t *testing.T) {
	msg := &domain.ChatMessage{ID: "1", DisplayName: "Ada", Text: "keep going"}
	session := &fakeSession{notification: domain.NotificationState{Phase: domain.PhaseShowing, Current: msg, Visible: true}}
	m := newSessionModel(context.Background(), session, fixedNow)
	assert.Contains(t, m.View(), "keep going")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, session.dismissed)
	assert.Equal(t, domain.PhaseFadingOut, m.snap.Notification.Phase)

	session.OpenChat()
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, session.dismissed, "esc closes the chat first")
	assert.False(t, session.ChatOpen())
}

func TestSessionCtrlWTogglesWorking(t *testing.T) {
	session := &fakeSession{}
	m := newSessionModel(context.Background(), session, fixedNow)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	m = runCmd(t, m, cmd)
	assert.True(t, session.Working())
	assert.Contains(t, m.View(), "[you are focusing]")

	session.workingErr = errors.New("transport down")
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	m = runCmd(t, m, cmd)
	assert.True(t, session.Working())
	assert.Contains(t, m.status, "transport down")
}

func TestSessionCtrlCQuits(t *testing.T) {
	m := newSessionModel(context.Background(), &fakeSession{}, fixedNow)

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSessionRefreshAndVisibleWindow(t *testing.T) {
	session := &fakeSession{chatOpen: true}
	m := newSessionModel(context.Background(), session, fixedNow)
	for i := range 20 {
		_, _ = session.SendMessage(context.Background(), string(rune('a'+i)))
	}

	next, _ := m.Update(refreshMsg{})
	m = next.(sessionModel)
	require.Len(t, m.snap.Messages, 20)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	m = next.(sessionModel)
	visible := m.visibleMessages()
	require.Len(t, visible, 4)
	assert.Equal(t, "t", visible[len(visible)-1].Text)
}
