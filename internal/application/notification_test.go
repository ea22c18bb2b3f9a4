package application

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focus-lounge/internal/domain"
)

func newTestNotifications(t *testing.T) (*NotificationLifecycle, *quartz.Mock) {
	t.Helper()
	clock := quartz.NewMock(t)
	l := NewNotificationLifecycle(clock, nil, NotificationOptions{})
	t.Cleanup(l.Close)
	return l, clock
}

func TestNotificationShowExpiresThenClears(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestNotifications(t)

	l.Show(domain.ChatMessage{ID: "m1", Text: "hi"})
	state := l.State()
	require.Equal(t, domain.PhaseShowing, state.Phase)
	assert.True(t, state.Visible)
	require.NotNil(t, state.Current)
	assert.Equal(t, "m1", state.Current.ID)

	clock.Advance(DefaultNotificationDisplay).MustWait(ctx)
	state = l.State()
	assert.Equal(t, domain.PhaseFadingOut, state.Phase)
	assert.False(t, state.Visible)
	msg, ok := l.Current()
	require.True(t, ok, "a fading message stays current until idle")
	require.NotNil(t, state.Current)
	assert.Equal(t, state.Current.ID, msg.ID)

	clock.Advance(DefaultNotificationFade).MustWait(ctx)
	state = l.State()
	assert.Equal(t, domain.PhaseIdle, state.Phase)
	assert.Nil(t, state.Current)
	_, ok = l.Current()
	assert.False(t, ok)

	_, pending := clock.Peek()
	assert.False(t, pending)
}

func TestNotificationNewMessageRestartsDisplayWindow(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestNotifications(t)

	l.Show(domain.ChatMessage{ID: "a"})
	clock.Advance(2 * time.Second).MustWait(ctx)
	l.Show(domain.ChatMessage{ID: "b"})

	clock.Advance(time.Second).MustWait(ctx)
	msg, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "b", msg.ID)

	clock.Advance(2*time.Second - time.Millisecond).MustWait(ctx)
	assert.Equal(t, domain.PhaseShowing, l.State().Phase)

	clock.Advance(time.Millisecond).MustWait(ctx)
	assert.Equal(t, domain.PhaseFadingOut, l.State().Phase)
}

func TestNotificationDismissDoesNotHideLaterMessage(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestNotifications(t)

	l.Show(domain.ChatMessage{ID: "first"})
	clock.Advance(2900 * time.Millisecond).MustWait(ctx)
	l.Dismiss()
	assert.Equal(t, domain.PhaseFadingOut, l.State().Phase)

	clock.Advance(100 * time.Millisecond).MustWait(ctx)
	l.Show(domain.ChatMessage{ID: "second"})

	// Neither the dismissed display timer nor the interrupted fade may touch "second".
	clock.Advance(DefaultNotificationDisplay - time.Millisecond).MustWait(ctx)
	msg, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "second", msg.ID)

	clock.Advance(time.Millisecond).MustWait(ctx)
	assert.Equal(t, domain.PhaseFadingOut, l.State().Phase)
	clock.Advance(DefaultNotificationFade).MustWait(ctx)
	assert.Equal(t, domain.PhaseIdle, l.State().Phase)
}

func TestNotificationDismissWhenIdleIsNoop(t *testing.T) {
	l, clock := newTestNotifications(t)

	l.Dismiss()

	assert.Equal(t, domain.PhaseIdle, l.State().Phase)
	_, pending := clock.Peek()
	assert.False(t, pending)
}

func TestNotificationOpenChatSuppressesBubbles(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestNotifications(t)

	l.Show(domain.ChatMessage{ID: "a"})
	l.OpenChat()
	assert.Equal(t, domain.PhaseFadingOut, l.State().Phase)

	clock.Advance(DefaultNotificationFade).MustWait(ctx)
	l.Show(domain.ChatMessage{ID: "b"})
	assert.Equal(t, domain.PhaseIdle, l.State().Phase)
	assert.True(t, l.ChatOpen())

	l.CloseChat()
	l.Show(domain.ChatMessage{ID: "c"})
	msg, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, "c", msg.ID)
}

func TestNotificationWatchReceivesTransitions(t *testing.T) {
	ctx := context.Background()
	l, clock := newTestNotifications(t)

	var phases []domain.NotificationPhase
	stop := l.Watch(func(s domain.NotificationState) { phases = append(phases, s.Phase) })

	l.Show(domain.ChatMessage{ID: "a"})
	clock.Advance(DefaultNotificationDisplay).MustWait(ctx)
	clock.Advance(DefaultNotificationFade).MustWait(ctx)
	stop()
	l.Show(domain.ChatMessage{ID: "b"})

	assert.Equal(t, []domain.NotificationPhase{domain.PhaseShowing, domain.PhaseFadingOut, domain.PhaseIdle}, phases)
}

func TestNotificationCloseStopsTimers(t *testing.T) {
	l, clock := newTestNotifications(t)

	l.Show(domain.ChatMessage{ID: "a"})
	l.Close()

	_, pending := clock.Peek()
	assert.False(t, pending)
	l.Show(domain.ChatMessage{ID: "b"})
	assert.Equal(t, domain.PhaseIdle, l.State().Phase)
}
