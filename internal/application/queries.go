package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

type PresenceSummary struct {
	Viewers   int       `json:"viewers"`
	Workers   int       `json:"workers"`
	CheckedAt time.Time `json:"checked_at"`
}

type FeedEntry struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"user_id"`
	Author    string    `json:"display_name"`
	Text      string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// QueryPresence observes every cohort once, without announcing this session,
// and reports their sizes.
func QueryPresence(ctx context.Context, transport ports.PresenceTransport, clock ports.Clock, logger *zap.Logger) (PresenceSummary, error) {
	return QueryPresenceProgress(ctx, transport, clock, logger, nil)
}

// QueryPresenceProgress is QueryPresence with progress called on every
// snapshot that lands while the cohorts are being observed.
func QueryPresenceProgress(
	ctx context.Context,
	transport ports.PresenceTransport,
	clock ports.Clock,
	logger *zap.Logger,
	progress func(PresenceSummary),
) (PresenceSummary, error) {
	if clock == nil {
		clock = ports.SystemClock()
	}
	m := NewPresenceManager(transport, clock, logger)

	stops := make([]func(), 0, len(domain.Cohorts))
	defer func() {
		for _, stop := range stops {
			stop()
		}
	}()
	if progress != nil {
		stopWatching := m.Watch(func(domain.Cohort, int) {
			progress(PresenceSummary{
				Viewers:   m.Count(domain.CohortViewers),
				Workers:   m.Count(domain.CohortWorkers),
				CheckedAt: clock.Now(),
			})
		})
		defer stopWatching()
	}

	for _, cohort := range domain.Cohorts {
		stop, err := m.Observe(ctx, cohort)
		if err != nil {
			return PresenceSummary{}, fmt.Errorf("observe %s: %w", cohort, err)
		}
		stops = append(stops, stop)
	}

	return PresenceSummary{
		Viewers:   m.Count(domain.CohortViewers),
		Workers:   m.Count(domain.CohortWorkers),
		CheckedAt: clock.Now(),
	}, nil
}

// QueryFeed returns up to limit recent messages, oldest first.
func QueryFeed(ctx context.Context, store ports.MessageStore, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	messages, err := store.Recent(ctx, limit)
	if err != nil {
		if errors.Is(err, domain.ErrTransientFetch) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTransientFetch, err)
	}
	return messages, nil
}

func NewFeedEntries(messages []domain.ChatMessage) []FeedEntry {
	entries := make([]FeedEntry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, FeedEntry{
			ID:        msg.ID,
			AuthorID:  msg.AuthorID,
			Author:    msg.Author(),
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		})
	}
	return entries
}
