package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	TMDB      TMDBConfig      `mapstructure:"tmdb"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Favorites FavoritesConfig `mapstructure:"favorites"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// TMDBConfig holds movie metadata API configuration
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"` // Prefix for poster paths
	Language     string        `mapstructure:"language"`
	Page         int           `mapstructure:"page"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// StorageConfig holds local storage configuration
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"` // Empty means memory-only
}

// FavoritesConfig holds favorites screen configuration
type FavoritesConfig struct {
	LookupDelay time.Duration `mapstructure:"lookup_delay"` // Pause before each detail lookup
}

// UIConfig holds UI configuration
type UIConfig struct {
	RankSearchResults bool `mapstructure:"rank_search_results"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3/",
			ImageBaseURL: "https://image.tmdb.org/t/p/original/",
			Language:     "en_US",
			Page:         1,
			Timeout:      30 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: defaultDataPath(),
		},
		Favorites: FavoritesConfig{
			LookupDelay: 300 * time.Millisecond,
		},
		UI: UIConfig{
			RankSearchResults: true,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "marquee.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "marquee")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "marquee")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "marquee")
	}
}

// LoadConfig loads configuration from the default config directory,
// the working directory, a .env file and the environment
func LoadConfig() (*Config, error) {
	// A missing .env is fine, the key may come from config.yaml or the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}
	return LoadConfigFrom(DefaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration searching only the given directories
func LoadConfigFrom(dirs ...string) (*Config, error) {
	cfg := DefaultConfig()
	v, err := newViper(cfg)
	if err != nil {
		return nil, err
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// newViper builds a viper instance seeded with cfg as defaults so every key
// can be overridden from the environment (MARQUEE_TMDB_API_KEY, ...)
func newViper(cfg *Config) (*viper.Viper, error) {
	v := viper.New()
	setAll(v.SetDefault, cfg)

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The bare TMDB_API_KEY is what .env files conventionally carry
	if err := v.BindEnv("tmdb.api_key", "MARQUEE_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	return v, nil
}

// setAll applies every config field through set, using snake_case keys
func setAll(set func(key string, value any), cfg *Config) {
	set("tmdb.api_key", cfg.TMDB.APIKey)
	set("tmdb.base_url", cfg.TMDB.BaseURL)
	set("tmdb.image_base_url", cfg.TMDB.ImageBaseURL)
	set("tmdb.language", cfg.TMDB.Language)
	set("tmdb.page", cfg.TMDB.Page)
	set("tmdb.timeout", cfg.TMDB.Timeout.String())

	set("storage.data_dir", cfg.Storage.DataDir)

	set("favorites.lookup_delay", cfg.Favorites.LookupDelay.String())

	set("ui.rank_search_results", cfg.UI.RankSearchResults)

	set("logging.file", cfg.Logging.File)
	set("logging.level", cfg.Logging.Level)
}

// SaveConfig saves the configuration to the default config directory
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(cfg, DefaultConfigPath())
}

// SaveConfigTo saves the configuration as config.yaml inside dir
func SaveConfigTo(cfg *Config, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setAll(v.Set, cfg)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// Ephemeral switches storage and logging to memory-only mode
func (c *Config) Ephemeral() {
	c.Storage.DataDir = ""
	c.Logging.File = ""
}
