package lounge

import (
	"bytes"
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectingShowsCountsAsTheyArrive(t *testing.T) {
	m := newConnectingModel(nil)
	assert.Contains(t, m.View(), "Connecting to the lounge...")

	next, cmd := m.Update(countsMsg{viewers: 4, workers: 2})
	assert.Nil(t, cmd)
	m = next.(connectingModel)
	view := m.View()
	assert.NotContains(t, view, "Connecting")
	assert.Contains(t, view, "4 people in the lounge")
	assert.Contains(t, view, "2 focusing")

	next, _ = m.Update(countsMsg{viewers: 1, workers: 0})
	m = next.(connectingModel)
	assert.Contains(t, m.View(), "1 person in the lounge")
}

func TestConnectingQuitsWithQueryResult(t *testing.T) {
	m := newConnectingModel(nil)

	next, cmd := m.Update(connectedMsg{err: errors.New("hub closed")})
	m = next.(connectingModel)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.done)
	assert.EqualError(t, m.err, "hub closed")
	assert.Empty(t, m.View())
}

func TestRunConnectingReturnsQueryError(t *testing.T) {
	var out bytes.Buffer
	calls := 0

	err := RunConnecting(context.Background(), &out, func(_ context.Context, counts CountsFunc) error {
		calls++
		counts(3, 1)
		return errors.New("subscribe failed")
	})

	require.EqualError(t, err, "subscribe failed")
	assert.Equal(t, 1, calls)
}
