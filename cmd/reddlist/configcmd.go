package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"reddlist/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or generate configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}

		fmt.Printf("api.base_url      %s\n", cfg.API.BaseURL)
		fmt.Printf("api.user_agent    %s\n", cfg.API.UserAgent)
		fmt.Printf("api.http_timeout  %s\n", cfg.API.HTTPTimeout)
		fmt.Printf("api.max_retries   %d\n", cfg.API.MaxRetries)
		fmt.Printf("comments.depth    %d\n", cfg.Comments.Depth)
		fmt.Printf("comments.limit    %d\n", cfg.Comments.Limit)
		fmt.Printf("comments.cache_ttl %s\n", cfg.Comments.CacheTTL)
		fmt.Printf("database.path     %s\n", cfg.Database.Path)
		return nil
	},
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			path = filepath.Join(home, ".config", "reddlist", "config.toml")
		}

		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("generating config: %w", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGenerateCmd)
	rootCmd.AddCommand(configCmd)
}
