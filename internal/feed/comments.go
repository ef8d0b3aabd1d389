package feed

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"reddlist/internal/format"
	"reddlist/internal/reddit"
)

// CommentKind distinguishes real comments from continuation placeholders.
type CommentKind string

const (
	// CommentNode is an ordinary comment with body, author and score.
	CommentNode CommentKind = "comment"
	// ContinuationNode marks replies that exist upstream but were not
	// fetched. It carries no body, author or score and is always a leaf;
	// render sites resolve it to a deep link.
	ContinuationNode CommentKind = "continuation"
)

// Comment is one node of a post's reply tree.
type Comment struct {
	ID         string
	Kind       CommentKind
	Body       string
	Author     string
	Score      int
	CreatedUTC int64
	Replies    []*Comment
}

// IsContinuation reports whether the node is a continuation placeholder.
func (c *Comment) IsContinuation() bool {
	return c.Kind == ContinuationNode
}

// Deeplink resolves a continuation node to the upstream thread URL. With a
// parent comment it points at that comment's subtree; without one the
// caller should fall back to the post permalink.
func (c *Comment) Deeplink(feedName, postID string, parent *Comment) string {
	if parent == nil {
		return fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s", feedName, postID)
	}
	return fmt.Sprintf("https://www.reddit.com/r/%s/comments/%s/comment/%s", feedName, postID, parent.ID)
}

// BuildComments turns a raw comment listing into a forest of Comment
// nodes. "more" stubs become continuation leaves; everything else keeps
// its body and recurses into its replies. Upstream order is preserved at
// every level and the function is idempotent: the same listing always
// yields a structurally identical forest. Depth mirrors whatever the
// fetch's depth parameter produced; nothing is truncated locally.
func BuildComments(listing *reddit.Listing) []*Comment {
	if listing == nil {
		return nil
	}
	return buildForest(listing.Data.Children)
}

func buildForest(things []reddit.Thing) []*Comment {
	forest := make([]*Comment, 0, len(things))
	for _, thing := range things {
		raw, err := thing.Comment()
		if err != nil {
			log.WithField("kind", thing.Kind).Debugf("skipping undecodable comment: %v", err)
			continue
		}

		if thing.Kind == "more" {
			forest = append(forest, &Comment{ID: raw.ID, Kind: ContinuationNode})
			continue
		}

		forest = append(forest, &Comment{
			ID:         raw.ID,
			Kind:       CommentNode,
			Body:       format.UnescapeHTML(raw.Body),
			Author:     raw.Author,
			Score:      raw.Score,
			CreatedUTC: int64(raw.Created),
			Replies:    buildForest(raw.Replies.Children()),
		})
	}
	return forest
}
