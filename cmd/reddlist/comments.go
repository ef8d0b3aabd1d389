package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"reddlist/internal/feed"
	"reddlist/internal/format"
	"reddlist/internal/validation"
)

var commentsCmd = &cobra.Command{
	Use:   "comments <subreddit> <post-id>",
	Short: "Show a post's comment tree",
	Long: `Fetches and prints a post's threaded comments. Replies beyond the
fetch depth show up as links into the upstream thread.`,
	Args: cobra.ExactArgs(2),
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
		postID := args[1]

		forest, err := a.loader.Load(cmd.Context(), postID)
		if err != nil {
			return err
		}
		if len(forest) == 0 {
			fmt.Println("No comments yet.")
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return err
		}

		printForest(renderer, forest, nil, name, postID, 0)
		return nil
	},
}

func printForest(renderer *glamour.TermRenderer, forest []*feed.Comment, parent *feed.Comment, feedName, postID string, depth int) {
	indent := strings.Repeat("  ", depth)

	for _, c := range forest {
		if c.IsContinuation() {
			fmt.Printf("%s%s %s\n", indent,
				metaStyle.Render("more replies:"),
				c.Deeplink(feedName, postID, parent))
			continue
		}

		fmt.Printf("%s%s %s\n", indent,
			titleStyle.Render("u/"+c.Author),
			metaStyle.Render(fmt.Sprintf("%s points · %s",
				format.CompactNumber(c.Score), format.RelTime(c.CreatedUTC))))

		fmt.Print(indentLines(renderBody(renderer, c.Body), indent))

		printForest(renderer, c.Replies, c, feedName, postID, depth+1)
	}
}

// renderBody renders comment markdown for the terminal, falling back to
// the raw text when rendering fails.
func renderBody(renderer *glamour.TermRenderer, body string) string {
	out, err := renderer.Render(body)
	if err != nil {
		return body + "\n"
	}
	return strings.Trim(out, "\n") + "\n"
}

func indentLines(s, indent string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n") + "\n"
}

func init() {
	rootCmd.AddCommand(commentsCmd)
}
