package ports

import (
	"context"

	"github.com/bnema/focus-lounge/internal/domain"
)

type MessageStore interface {
	Insert(ctx context.Context, draft domain.MessageDraft) (domain.ChatMessage, error)
	// Recent returns at most limit of the newest messages in ascending CreatedAt order.
	Recent(ctx context.Context, limit int) ([]domain.ChatMessage, error)
	SubscribeInserts(ctx context.Context, fn func(domain.ChatMessage)) (cancel func(), err error)
}
