package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reddlist/internal/events"
	"reddlist/internal/feed"
	"reddlist/internal/format"
)

var (
	postsSort  string
	postsPages int
)

var postsCmd = &cobra.Command{
	Use:   "posts <subreddit>",
	Short: "Show a subreddit's posts",
	Long: `Fetches and prints a subreddit's posts in upstream order. The feed
does not need to be in the saved list; saved feeds use their stored sort
mode unless --sort overrides it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.openFeed(args[0], postsSort)
		if err != nil {
			return err
		}

		// Progress goes to stderr so stdout stays pipeable.
		_, err = f.Hub().Subscribe(feed.EventFetchEntriesFinish, func(p events.Payload) {
			if p["err"] == nil {
				fmt.Fprintf(os.Stderr, "fetched %v posts\n", p["count"])
			}
		})
		if err != nil {
			return err
		}

		if err := f.Fetch(cmd.Context()); err != nil {
			if f.LastError() != nil {
				return f.LastError()
			}
			// Metadata failed but entries loaded; print what we have.
			fmt.Fprintln(os.Stderr, warningStyle.Render(err.Error()))
		}

		for page := 1; page < postsPages && f.HasMore(); page++ {
			if err := f.LoadMore(cmd.Context()); err != nil && !errors.Is(err, feed.ErrExhausted) {
				return err
			}
		}

		printFeedHeader(f)
		for i, post := range f.Entries() {
			printPost(i+1, post)
		}
		return nil
	},
}

func printFeedHeader(f *feed.Feed) {
	meta := f.Meta()
	header := "r/" + f.Name()
	if meta.DisplayName != "" {
		header = meta.DisplayName
	}

	fmt.Printf("%s %s\n", nameStyle.Render(header), metaStyle.Render("sorted by "+f.SortMode().String()))
	if meta.Description != "" {
		fmt.Println(metaStyle.Render(meta.Description))
	}
	fmt.Println()
}

func printPost(rank int, post *feed.Post) {
	fmt.Printf("%s %s\n", metaStyle.Render(fmt.Sprintf("%3d.", rank)), titleStyle.Render(post.Title))
	fmt.Printf("     %s\n", metaStyle.Render(fmt.Sprintf("%s points · %s comments · u/%s · %s",
		format.CompactNumber(post.Score),
		format.CompactNumber(post.CommentCount),
		post.Author,
		format.RelTime(post.CreatedUTC))))

	if summary := contentSummary(post); summary != "" {
		fmt.Printf("     %s %s\n", kindStyle.Render("["+string(post.Kind())+"]"), summary)
	}
	fmt.Println()
}

// contentSummary reduces each content kind to one printable line.
func contentSummary(post *feed.Post) string {
	switch content := post.Content.(type) {
	case feed.LinkContent:
		return content.URL
	case feed.ImageContent:
		return content.URL
	case feed.GalleryContent:
		return fmt.Sprintf("%d images", len(content.URLs))
	case feed.VideoContent:
		if len(content.Streams) > 0 {
			return content.Streams[0]
		}
		return ""
	case feed.PollContent:
		return "poll"
	case feed.CrosspostContent:
		return "crosspost: " + content.Parent.Title
	case feed.TextContent:
		return firstLine(content.HTML)
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:117] + "..."
	}
	return s
}

func init() {
	postsCmd.Flags().StringVar(&postsSort, "sort", "", "sort mode (hot, new, top, rising)")
	postsCmd.Flags().IntVar(&postsPages, "pages", 1, "number of pages to fetch")
	rootCmd.AddCommand(postsCmd)
}
