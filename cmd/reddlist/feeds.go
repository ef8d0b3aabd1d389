package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reddlist/internal/feed"
	"reddlist/internal/validation"
)

var addSort string

var addCmd = &cobra.Command{
	Use:   "add <subreddit>",
	Short: "Add a subreddit to the list",
	Long: `Adds a subreddit to the saved list. The name is checked against the
upstream before saving, so typos fail here instead of at read time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := validation.NewFeedNameValidator().ValidateAndNormalize(args[0])
		if err != nil {
			return err
		}

		sortMode, err := feed.ParseSort(addSort)
		if err != nil {
			return err
		}

		f, err := feed.New(name, sortMode, a.client, a.loader)
		if err != nil {
			return err
		}

		// Verify the subreddit exists before persisting it.
		if err := f.FetchMetadata(cmd.Context()); err != nil {
			return fmt.Errorf("checking r/%s: %w", name, err)
		}

		if err := a.store.SaveFeed(f.Serialize()); err != nil {
			return err
		}

		meta := f.Meta()
		fmt.Printf("Added %s (%s)\n", nameStyle.Render("r/"+name), meta.DisplayName)
		if meta.Description != "" {
			fmt.Println(metaStyle.Render(meta.Description))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <subreddit>",
	Short: "Remove a subreddit from the list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := validation.NewFeedNameValidator().ValidateAndNormalize(args[0])
		if err != nil {
			return err
		}

		found, err := a.store.HasFeed(name)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("r/%s was not in the list\n", name)
			return nil
		}

		if err := a.store.DeleteFeed(name); err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", nameStyle.Render("r/"+name))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the saved subreddit list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		feeds, err := a.store.GetAllFeeds()
		if err != nil {
			return err
		}
		if len(feeds) == 0 {
			fmt.Println("No subreddits saved. Add one with: reddlist add <subreddit>")
			return nil
		}

		for _, saved := range feeds {
			fmt.Printf("%s %s\n",
				nameStyle.Render("r/"+saved.Name),
				metaStyle.Render("("+saved.Sort.String()+")"))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addSort, "sort", "hot", "default sort mode (hot, new, top, rising)")
	rootCmd.AddCommand(addCmd, removeCmd, listCmd)
}
