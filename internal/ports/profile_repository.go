package ports

import (
	"context"

	"github.com/bnema/focus-lounge/internal/domain"
)

type ProfileRepository interface {
	Get(ctx context.Context) (domain.Profile, error)
	Save(ctx context.Context, profile domain.Profile) error
}
