package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Comments CommentsConfig `mapstructure:"comments"`
	Database DatabaseConfig `mapstructure:"database"`
}

type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MaxRetries  uint64        `mapstructure:"max_retries"`
}

type CommentsConfig struct {
	Depth    int           `mapstructure:"depth"`
	Limit    int           `mapstructure:"limit"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".reddlist.db")

	return &Config{
		API: APIConfig{
			BaseURL:     "https://api.reddit.com",
			UserAgent:   "reddlist/1.0 (personal subreddit list)",
			HTTPTimeout: 30 * time.Second,
			MaxRetries:  2,
		},
		Comments: CommentsConfig{
			Depth:    3,
			Limit:    30,
			CacheTTL: 5 * time.Minute,
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults are registered per leaf key: viper does not merge a
	// struct-valued default with a partially specified TOML section.
	cfg := defaultConfig()
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.http_timeout", cfg.API.HTTPTimeout)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	v.SetDefault("comments.depth", cfg.Comments.Depth)
	v.SetDefault("comments.limit", cfg.Comments.Limit)
	v.SetDefault("comments.cache_ttl", cfg.Comments.CacheTTL)
	v.SetDefault("database.path", cfg.Database.Path)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "reddlist")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REDDLIST")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	config.Database.Path = expandPath(config.Database.Path)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	apiCfg := map[string]interface{}{
		"base_url":     config.API.BaseURL,
		"user_agent":   config.API.UserAgent,
		"http_timeout": config.API.HTTPTimeout.String(),
		"max_retries":  config.API.MaxRetries,
	}

	commentsCfg := map[string]interface{}{
		"depth":     config.Comments.Depth,
		"limit":     config.Comments.Limit,
		"cache_ttl": config.Comments.CacheTTL.String(),
	}

	v.Set("api", apiCfg)
	v.Set("comments", commentsCfg)
	v.Set("database", map[string]interface{}{"path": config.Database.Path})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
