// Package config loads ~/.lounge/config.toml with LOUNGE_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".lounge"
	envPrefix  = "LOUNGE"

	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

type Config struct {
	Store        StoreConfig        `mapstructure:"store"`
	Profile      ProfileConfig      `mapstructure:"profile"`
	Chat         ChatConfig         `mapstructure:"chat"`
	Synthetic    SyntheticConfig    `mapstructure:"synthetic"`
	Notification NotificationConfig `mapstructure:"notification"`
	Presence     PresenceConfig     `mapstructure:"presence"`
	Log          LogConfig          `mapstructure:"log"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type ProfileConfig struct {
	Path string `mapstructure:"path"`
}

type ChatConfig struct {
	PageSize     int           `mapstructure:"page_size"`
	MaxMessages  int           `mapstructure:"max_messages"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type SyntheticConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
	Seed        uint64        `mapstructure:"seed"`
}

type NotificationConfig struct {
	Display time.Duration `mapstructure:"display"`
	Fade    time.Duration `mapstructure:"fade"`
}

type PresenceConfig struct {
	Heartbeat time.Duration `mapstructure:"heartbeat"`
	TTL       time.Duration `mapstructure:"ttl"`
	Poll      time.Duration `mapstructure:"poll"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Dir is the directory holding the config file, the database and the profile.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir), nil
}

// Load reads the config file into cfg when present and decodes the result.
// A missing file is not an error.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)
	setDefaults(cfg, dir)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var out Config
	if err := cfg.Unmarshal(&out); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Config{}, err
	}

	return out, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverSQLite, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == StoreDriverSQLite && strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store path is empty")
	}
	for _, d := range []struct {
		key   string
		value time.Duration
	}{
		{"chat.poll_interval", c.Chat.PollInterval},
		{"synthetic.min_interval", c.Synthetic.MinInterval},
		{"synthetic.max_interval", c.Synthetic.MaxInterval},
		{"notification.display", c.Notification.Display},
		{"notification.fade", c.Notification.Fade},
		{"presence.heartbeat", c.Presence.Heartbeat},
		{"presence.ttl", c.Presence.TTL},
		{"presence.poll", c.Presence.Poll},
	} {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.key, d.value)
		}
	}
	if c.Chat.PageSize <= 0 || c.Chat.MaxMessages <= 0 {
		return fmt.Errorf("chat page_size %d and max_messages %d must be positive", c.Chat.PageSize, c.Chat.MaxMessages)
	}
	if c.Synthetic.MaxInterval < c.Synthetic.MinInterval {
		return fmt.Errorf("synthetic max_interval %s is below min_interval %s", c.Synthetic.MaxInterval, c.Synthetic.MinInterval)
	}
	return nil
}

func setDefaults(cfg *viper.Viper, dir string) {
	cfg.SetDefault("store.driver", StoreDriverSQLite)
	cfg.SetDefault("store.path", filepath.Join(dir, "lounge.db"))
	cfg.SetDefault("profile.path", filepath.Join(dir, "profile.toml"))
	cfg.SetDefault("chat.page_size", 50)
	cfg.SetDefault("chat.max_messages", 200)
	cfg.SetDefault("chat.poll_interval", time.Second)
	cfg.SetDefault("synthetic.enabled", true)
	cfg.SetDefault("synthetic.min_interval", 60*time.Second)
	cfg.SetDefault("synthetic.max_interval", 180*time.Second)
	cfg.SetDefault("synthetic.seed", uint64(0))
	cfg.SetDefault("notification.display", 3000*time.Millisecond)
	cfg.SetDefault("notification.fade", 300*time.Millisecond)
	cfg.SetDefault("presence.heartbeat", 10*time.Second)
	cfg.SetDefault("presence.ttl", 30*time.Second)
	cfg.SetDefault("presence.poll", 2*time.Second)
	cfg.SetDefault("log.level", "warn")
	cfg.SetDefault("log.file", "")
}
