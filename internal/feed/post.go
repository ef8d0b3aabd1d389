package feed

import (
	"context"
	"encoding/json"
	"errors"
)

// ContentKind discriminates a post's content payload. It is decided once
// by Classify; render sites switch on it instead of re-probing raw fields.
type ContentKind string

const (
	KindText      ContentKind = "text"
	KindLink      ContentKind = "link"
	KindImage     ContentKind = "image"
	KindGallery   ContentKind = "gallery"
	KindVideo     ContentKind = "video"
	KindPoll      ContentKind = "poll"
	KindCrosspost ContentKind = "crosspost"
)

// Content is the kind-specific payload of a post.
type Content interface {
	Kind() ContentKind
}

// TextContent is a self post's pre-rendered, HTML-escaped body.
type TextContent struct {
	HTML string
}

func (TextContent) Kind() ContentKind { return KindText }

// LinkContent is the destination URL of an outbound link post.
type LinkContent struct {
	URL string
}

func (LinkContent) Kind() ContentKind { return KindLink }

// ImageContent is a direct image URL.
type ImageContent struct {
	URL string
}

func (ImageContent) Kind() ContentKind { return KindImage }

// GalleryContent is an ordered sequence of image URLs.
type GalleryContent struct {
	URLs []string
}

func (GalleryContent) Kind() ContentKind { return KindGallery }

// VideoContent lists candidate stream URLs in preference order:
// HLS, then DASH, then the progressive fallback.
type VideoContent struct {
	Streams []string
}

func (VideoContent) Kind() ContentKind { return KindVideo }

// PollContent passes the upstream poll payload through opaquely.
type PollContent struct {
	Raw json.RawMessage
}

func (PollContent) Kind() ContentKind { return KindPoll }

// CrosspostContent wraps the classified parent post, one level deep.
type CrosspostContent struct {
	Parent *Post
}

func (CrosspostContent) Kind() ContentKind { return KindCrosspost }

// Post is a single normalized entry of a feed. It is owned by exactly one
// Feed and, like the Feed itself, is not safe for unsynchronized
// concurrent use.
type Post struct {
	ID           string
	FullName     string
	Title        string
	Author       string
	Score        int
	CommentCount int
	CreatedUTC   int64
	Thumbnail    string
	Permalink    string
	Content      Content

	feedName string
	loader   *CommentLoader
	comments []*Comment
}

// Kind returns the content kind discriminant.
func (p *Post) Kind() ContentKind {
	return p.Content.Kind()
}

// FeedName returns the name of the owning feed. It is empty for the
// parent post inside a CrosspostContent.
func (p *Post) FeedName() string {
	return p.feedName
}

// Comments returns the forest from the most recent LoadComments call, or
// nil when comments were never loaded.
func (p *Post) Comments() []*Comment {
	return p.comments
}

// LoadComments returns the post's comment forest, fetching and building it
// on a cache miss. Concurrent calls for the same post share one upstream
// fetch; see CommentLoader.
func (p *Post) LoadComments(ctx context.Context) ([]*Comment, error) {
	if p.loader == nil {
		return nil, errors.New("feed: post has no comment loader")
	}

	forest, err := p.loader.Load(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.comments = forest
	return forest, nil
}
