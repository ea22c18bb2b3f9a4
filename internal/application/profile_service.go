package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

type ProfileService struct {
	repo  ports.ProfileRepository
	newID func() string
}

func NewProfileService(repo ports.ProfileRepository) *ProfileService {
	return &ProfileService{
		repo:  repo,
		newID: uuid.NewString,
	}
}

// Current returns the local profile, creating and persisting one on first use.
func (s *ProfileService) Current(ctx context.Context) (domain.Profile, error) {
	profile, err := s.repo.Get(ctx)
	if err == nil && profile.AuthorID != "" {
		return normalizeProfile(profile), nil
	}
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	profile = domain.Profile{
		AuthorID:    s.newID(),
		DisplayName: normalizeProfile(profile).DisplayName,
	}
	if err := s.repo.Save(ctx, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save new profile: %w", err)
	}

	return profile, nil
}

func (s *ProfileService) SetDisplayName(ctx context.Context, name string) (domain.Profile, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.DisplayName = domain.NormalizeDisplayName(name)
	if err := s.repo.Save(ctx, profile); err != nil {
		return domain.Profile{}, fmt.Errorf("save profile display name: %w", err)
	}

	return profile, nil
}

func normalizeProfile(p domain.Profile) domain.Profile {
	p.DisplayName = domain.NormalizeDisplayName(p.DisplayName)
	return p
}
