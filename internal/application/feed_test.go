package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports/mocks"
)

type recordingNotifier struct {
	mu    sync.Mutex
	shown []string
}

func (n *recordingNotifier) Show(msg domain.ChatMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.shown = append(n.shown, msg.ID)
}

func (n *recordingNotifier) ids() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.shown...)
}

var feedEpoch = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func remoteMessage(id string, offset int) domain.ChatMessage {
	return domain.ChatMessage{
		ID:          id,
		AuthorID:    "author-" + id,
		DisplayName: "Author " + id,
		Text:        "text " + id,
		CreatedAt:   feedEpoch.Add(time.Duration(offset) * time.Second),
	}
}

func feedIDs(msgs []domain.ChatMessage) []string {
	ids := make([]string, 0, len(msgs))
	for _, m := range msgs {
		ids = append(ids, m.ID)
	}
	return ids
}

// expectSubscribe captures the insert callback handed to the store.
func expectSubscribe(store *mocks.MockMessageStore, cancel func()) *func(domain.ChatMessage) {
	var captured func(domain.ChatMessage)
	store.EXPECT().SubscribeInserts(mockAnyContext(), mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(domain.ChatMessage)) (func(), error) {
			captured = fn
			return cancel, nil
		}).Once()
	return &captured
}

func TestChatFeedHistoryThenLiveMessages(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	notifier := &recordingNotifier{}
	feed := NewChatFeed(store, notifier, nil, ChatFeedOptions{})

	insert := expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).
		Return([]domain.ChatMessage{remoteMessage("b", 2), remoteMessage("a", 1)}, nil).Once()

	initial := feed.Initialize(context.Background())
	assert.Equal(t, []string{"a", "b"}, feedIDs(initial))
	assert.Empty(t, notifier.ids())

	(*insert)(remoteMessage("c", 3))
	feed.OnSyntheticMessage(domain.ChatMessage{ID: "d", Text: "keep going", CreatedAt: feedEpoch.Add(4 * time.Second)})

	msgs := feed.Messages()
	assert.Equal(t, []string{"a", "b", "c", "d"}, feedIDs(msgs))
	assert.Equal(t, domain.OriginRemote, msgs[2].Origin)
	assert.Equal(t, domain.OriginSynthetic, msgs[3].Origin)
	assert.Equal(t, []string{"c", "d"}, notifier.ids())
}

func TestChatFeedBuffersInsertsDuringHistoryFetch(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	notifier := &recordingNotifier{}
	feed := NewChatFeed(store, notifier, nil, ChatFeedOptions{})

	insert := expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).
		RunAndReturn(func(context.Context, int) ([]domain.ChatMessage, error) {
			(*insert)(remoteMessage("b", 2))
			(*insert)(remoteMessage("c", 3))
			return []domain.ChatMessage{remoteMessage("a", 1), remoteMessage("b", 2)}, nil
		}).Once()

	initial := feed.Initialize(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, feedIDs(initial))
	assert.Equal(t, []string{"c"}, notifier.ids())
}

func TestChatFeedHistoryFailureDegradesToEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := mocks.NewMockMessageStore(t)
	notifier := &recordingNotifier{}
	feed := NewChatFeed(store, notifier, zap.New(core), ChatFeedOptions{})

	insert := expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return(nil, errors.New("connection reset")).Once()

	initial := feed.Initialize(context.Background())
	assert.Empty(t, initial)

	entries := logs.FilterMessage("load chat history").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], domain.ErrTransientFetch.Error())

	(*insert)(remoteMessage("x", 1))
	assert.Equal(t, []string{"x"}, feedIDs(feed.Messages()))
	assert.Equal(t, []string{"x"}, notifier.ids())
}

func TestChatFeedSubscribeFailureStillLoadsHistory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, zap.New(core), ChatFeedOptions{})

	store.EXPECT().SubscribeInserts(mockAnyContext(), mock.Anything).Return(nil, errors.New("socket closed")).Once()
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return([]domain.ChatMessage{remoteMessage("a", 1)}, nil).Once()

	initial := feed.Initialize(context.Background())

	assert.Equal(t, []string{"a"}, feedIDs(initial))
	assert.Equal(t, 1, logs.FilterMessage("subscribe to message inserts").Len())
	feed.Close()
}

func TestChatFeedEvictsOldestBeyondCapacity(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return(nil, nil).Once()
	feed.Initialize(context.Background())

	for i := 0; i < 250; i++ {
		feed.OnRemoteInsert(remoteMessage(fmt.Sprintf("m%03d", i), i))
	}

	msgs := feed.Messages()
	require.Len(t, msgs, DefaultMaxMessages)
	assert.Equal(t, "m050", msgs[0].ID)
	assert.Equal(t, "m249", msgs[len(msgs)-1].ID)
}

func TestChatFeedIgnoresDuplicateRemoteInsert(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	notifier := &recordingNotifier{}
	feed := NewChatFeed(store, notifier, nil, ChatFeedOptions{})

	expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return([]domain.ChatMessage{remoteMessage("a", 1)}, nil).Once()
	feed.Initialize(context.Background())

	feed.OnRemoteInsert(remoteMessage("a", 1))
	feed.OnRemoteInsert(remoteMessage("b", 2))
	feed.OnRemoteInsert(remoteMessage("b", 2))

	assert.Equal(t, []string{"a", "b"}, feedIDs(feed.Messages()))
	assert.Equal(t, []string{"b"}, notifier.ids())
}

func TestChatFeedMessagesReturnsCopy(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return([]domain.ChatMessage{remoteMessage("a", 1)}, nil).Once()
	feed.Initialize(context.Background())

	msgs := feed.Messages()
	msgs[0].Text = "mutated"

	assert.Equal(t, "text a", feed.Messages()[0].Text)
}

func TestChatFeedSendRejectsBlankWithoutStoreCall(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	_, err := feed.Send(context.Background(), domain.Profile{AuthorID: "a"}, "   \n")

	require.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestChatFeedSendTruncatesAndUsesProfile(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})
	author := domain.Profile{AuthorID: "author-1", DisplayName: "Sam"}

	store.EXPECT().Insert(mockAnyContext(), mock.MatchedBy(func(d domain.MessageDraft) bool {
		return d.AuthorID == "author-1" && d.DisplayName == "Sam" && domain.UTF16Len(d.Text) == domain.MaxMessageLength
	})).Return(domain.ChatMessage{ID: "new"}, nil).Once()

	msg, err := feed.Send(context.Background(), author, strings.Repeat("z", 300))
	require.NoError(t, err)
	assert.Equal(t, "new", msg.ID)
	assert.Empty(t, feed.Messages())
}

func TestChatFeedSendWrapsStoreFailure(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	store.EXPECT().Insert(mockAnyContext(), mock.Anything).Return(domain.ChatMessage{}, errors.New("timeout")).Once()

	_, err := feed.Send(context.Background(), domain.Profile{AuthorID: "a"}, "hello")

	require.ErrorIs(t, err, domain.ErrSendFailed)
	assert.Contains(t, err.Error(), "timeout")
}

func TestChatFeedCloseCancelsSubscription(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	cancelled := false
	insert := expectSubscribe(store, func() { cancelled = true })
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return(nil, nil).Once()
	feed.Initialize(context.Background())

	feed.Close()
	(*insert)(remoteMessage("late", 1))

	assert.True(t, cancelled)
	assert.Empty(t, feed.Messages())
}

func TestChatFeedSubscribeObservesAppends(t *testing.T) {
	store := mocks.NewMockMessageStore(t)
	feed := NewChatFeed(store, nil, nil, ChatFeedOptions{})

	expectSubscribe(store, func() {})
	store.EXPECT().Recent(mockAnyContext(), DefaultPageSize).Return([]domain.ChatMessage{remoteMessage("a", 1)}, nil).Once()

	var seen []string
	stop := feed.Subscribe(func(m domain.ChatMessage) { seen = append(seen, m.ID) })
	feed.Initialize(context.Background())
	feed.OnRemoteInsert(remoteMessage("b", 2))
	stop()
	feed.OnRemoteInsert(remoteMessage("c", 3))

	assert.Equal(t, []string{"b"}, seen)
}
