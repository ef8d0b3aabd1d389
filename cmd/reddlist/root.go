package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"reddlist/internal/config"
	"reddlist/internal/feed"
	"reddlist/internal/reddit"
	"reddlist/internal/storage"
	"reddlist/internal/validation"
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfig  string
	flagDB      string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "reddlist",
	Short: "A personal subreddit list for the terminal",
	Long: `reddlist keeps a small list of subreddits and reads them from the
command line: paginated posts, subreddit metadata and threaded comments,
without an account and without the official client.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetLevel(log.WarnLevel)
		if flagVerbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "path to database file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// app bundles the wired collaborators every subcommand needs.
type app struct {
	cfg    *config.Config
	store  *storage.Store
	client *reddit.Client
	loader *feed.CommentLoader
}

func newApp() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Database.Path = flagDB
	}

	store, err := storage.NewStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	client := reddit.NewClient(reddit.Config{
		BaseURL:    cfg.API.BaseURL,
		UserAgent:  cfg.API.UserAgent,
		Timeout:    cfg.API.HTTPTimeout,
		MaxRetries: cfg.API.MaxRetries,
	})

	loader := feed.NewCommentLoader(client, feed.CommentConfig{
		Depth: cfg.Comments.Depth,
		Limit: cfg.Comments.Limit,
		TTL:   cfg.Comments.CacheTTL,
	})

	return &app{cfg: cfg, store: store, client: client, loader: loader}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warnf("closing store: %v", err)
	}
}

// openFeed reconstructs a saved feed, or builds a transient one when the
// name was never added.
func (a *app) openFeed(name string, sortOverride string) (*feed.Feed, error) {
	normalized, err := validation.NewFeedNameValidator().ValidateAndNormalize(name)
	if err != nil {
		return nil, err
	}

	sortMode := feed.SortHot
	if saved, err := a.store.GetFeed(normalized); err == nil {
		sortMode = saved.Sort
	}
	if sortOverride != "" {
		if sortMode, err = feed.ParseSort(sortOverride); err != nil {
			return nil, err
		}
	}

	return feed.New(normalized, sortMode, a.client, a.loader)
}

// Shared output styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	metaStyle    = lipgloss.NewStyle().Faint(true)
	nameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	kindStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA86B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
)
