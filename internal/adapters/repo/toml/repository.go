package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/focus-lounge/internal/domain"
	"github.com/bnema/focus-lounge/internal/ports"
)

const (
	ProfilePathKey    = "profile.path"
	profileConfigDir  = ".lounge"
	profileConfigFile = "profile.toml"
)

// Repository stores the local chat identity in a TOML file.
type Repository struct {
	profilePath string
	mu          *sync.RWMutex
}

var _ ports.ProfileRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	cfg.SetDefault(ProfilePathKey, filepath.Join(homeDir, profileConfigDir, profileConfigFile))

	profilePath := cfg.GetString(ProfilePathKey)
	if profilePath == "" {
		return nil, errors.New("profile path is empty")
	}
	profilePath, err = normalizeProfilePath(profilePath)
	if err != nil {
		return nil, err
	}

	return &Repository{profilePath: profilePath, mu: lockForPath(profilePath)}, nil
}

func (r *Repository) Path() string {
	return r.profilePath
}

func (r *Repository) Get(ctx context.Context) (domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return domain.Profile{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, found, err := r.readSchema()
	if err != nil {
		return domain.Profile{}, err
	}
	if !found || file.Profile.AuthorID == "" {
		return domain.Profile{}, domain.ErrProfileNotFound
	}

	return domain.Profile{
		AuthorID:    file.Profile.AuthorID,
		DisplayName: file.Profile.DisplayName,
	}, nil
}

func (r *Repository) Save(ctx context.Context, profile domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, _, err := r.readSchema()
	if err != nil {
		return err
	}
	file.Profile = profileSchema{
		AuthorID:    profile.AuthorID,
		DisplayName: profile.DisplayName,
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, bool, error) {
	data, err := os.ReadFile(r.profilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, false, nil
		}
		return fileSchema{}, false, fmt.Errorf("read profile file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, false, fmt.Errorf("decode profile file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, false, err
	}
	file.applyDefaults()

	return file, true, nil
}

func normalizeProfilePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve profile path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

// pathLocks serialises repositories that point at the same file.
var pathLocks sync.Map

func lockForPath(path string) *sync.RWMutex {
	mu, _ := pathLocks.LoadOrStore(path, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode profile file: %w", err)
	}
	if err := writeFileAtomic(r.profilePath, data); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}

	return nil
}
