package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/bnema/focus-lounge/internal/domain"
)

// PresenceTransport owns the authoritative membership of each channel.
// Subscribe returns once the subscription is acknowledged and delivers a full
// snapshot on every membership change.
type PresenceTransport interface {
	Subscribe(ctx context.Context, channel string, fn func(domain.PresenceSnapshot)) (cancel func(), err error)
	Track(ctx context.Context, channel string, key uuid.UUID, payload domain.PresencePayload) error
	Untrack(ctx context.Context, channel string, key uuid.UUID) error
}
