package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/focus-lounge/internal/adapters/sqlitedb"
	"github.com/bnema/focus-lounge/internal/domain"
)

func newTestStore(t *testing.T, clock quartz.Clock) *Store {
	t.Helper()
	db, err := sqlitedb.Open(context.Background(), filepath.Join(t.TempDir(), "lounge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, clock, nil, Options{PollInterval: time.Second})
}

func TestStoreInsertAndRecent(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	store := newTestStore(t, clock)

	for i := 0; i < 60; i++ {
		_, err := store.Insert(ctx, domain.MessageDraft{AuthorID: "a", DisplayName: "Sam", Text: fmt.Sprintf("m%02d", i)})
		require.NoError(t, err)
		clock.Advance(time.Millisecond).MustWait(ctx)
	}

	recent, err := store.Recent(ctx, 50)
	require.NoError(t, err)
	require.Len(t, recent, 50)
	assert.Equal(t, "m10", recent[0].Text)
	assert.Equal(t, "m59", recent[49].Text)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.Before(recent[i-1].CreatedAt))
	}
	assert.Equal(t, "Sam", recent[0].DisplayName)
	assert.Equal(t, domain.OriginRemote, recent[0].Origin)
}

func TestStoreRecentOrdersSameMillisecondByInsertion(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, quartz.NewMock(t))

	for _, text := range []string{"first", "second", "third"} {
		_, err := store.Insert(ctx, domain.MessageDraft{Text: text})
		require.NoError(t, err)
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Text)
	assert.Equal(t, "third", recent[1].Text)
}

func TestStoreSubscribeInsertsPollsNewRows(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	store := newTestStore(t, clock)

	_, err := store.Insert(ctx, domain.MessageDraft{Text: "before subscribe"})
	require.NoError(t, err)

	var (
		mu  sync.Mutex
		got []string
	)
	cancel, err := store.SubscribeInserts(ctx, func(msg domain.ChatMessage) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg.Text)
	})
	require.NoError(t, err)

	_, err = store.Insert(ctx, domain.MessageDraft{Text: "one"})
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.MessageDraft{Text: "two"})
	require.NoError(t, err)
	clock.Advance(time.Second).MustWait(ctx)

	_, err = store.Insert(ctx, domain.MessageDraft{Text: "three"})
	require.NoError(t, err)
	clock.Advance(time.Second).MustWait(ctx)

	cancel()
	_, err = store.Insert(ctx, domain.MessageDraft{Text: "after cancel"})
	require.NoError(t, err)
	clock.Advance(time.Second).MustWait(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestStoreRecentZeroLimit(t *testing.T) {
	store := newTestStore(t, quartz.NewMock(t))

	recent, err := store.Recent(context.Background(), 0)

	require.NoError(t, err)
	assert.Empty(t, recent)
}
