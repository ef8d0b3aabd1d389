package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reddlist/internal/feed"
	"reddlist/internal/search"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts across every saved subreddit",
	Long: `Fetches the current front page of every saved subreddit, indexes the
posts in memory and ranks them against the query. Nothing is persisted;
every invocation searches fresh data.`,
	Args: cobra.MinimumNArgs(1),
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
			return fmt.Errorf("no subreddits saved; add one with: reddlist add <subreddit>")
		}

		idx, err := search.NewIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		for _, saved := range feeds {
			f, err := feed.Restore(saved, a.client, a.loader)
			if err != nil {
				return err
			}
			if err := f.Refresh(cmd.Context()); err != nil {
				fmt.Fprintln(os.Stderr, warningStyle.Render(
					fmt.Sprintf("skipping r/%s: %v", saved.Name, err)))
				continue
			}
			if err := idx.IndexPosts(f.Name(), f.Entries()); err != nil {
				return err
			}
		}

		query := strings.Join(args, " ")
		results, err := idx.Search(query, searchLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No matches.")
			return nil
		}

		for _, r := range results {
			fmt.Printf("%s %s\n", nameStyle.Render("r/"+r.FeedName), titleStyle.Render(r.Title))
			fmt.Printf("  %s\n", metaStyle.Render(fmt.Sprintf("u/%s · id %s", r.Author, r.PostID)))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}
