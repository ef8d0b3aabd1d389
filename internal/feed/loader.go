package feed

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"reddlist/internal/reddit"
)

const (
	// DefaultCommentTTL is how long a built comment forest stays
	// servable before a reload hits the network again.
	DefaultCommentTTL = 5 * time.Minute

	// DefaultCommentDepth and DefaultCommentLimit are the fetch
	// parameters passed upstream; the built tree simply mirrors whatever
	// they produced.
	DefaultCommentDepth = 3
	DefaultCommentLimit = 30
)

// CommentConfig tunes a CommentLoader. Zero values fall back to the
// package defaults.
type CommentConfig struct {
	Depth int
	Limit int
	TTL   time.Duration
}

// CommentLoader fetches, builds and caches comment forests. One loader is
// shared by all feeds; forests are keyed by post id and expire after the
// TTL. Concurrent loads for the same post share a single upstream fetch.
type CommentLoader struct {
	client *reddit.Client
	cache  *gocache.Cache
	group  singleflight.Group
	depth  int
	limit  int
}

func NewCommentLoader(client *reddit.Client, cfg CommentConfig) *CommentLoader {
	if cfg.Depth == 0 {
		cfg.Depth = DefaultCommentDepth
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultCommentLimit
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultCommentTTL
	}

	return &CommentLoader{
		client: client,
		cache:  gocache.New(cfg.TTL, cfg.TTL),
		depth:  cfg.Depth,
		limit:  cfg.Limit,
	}
}

// Load returns the comment forest for a post, from cache when it is still
// within its TTL, otherwise via one shared upstream fetch.
func (l *CommentLoader) Load(ctx context.Context, postID string) ([]*Comment, error) {
	if forest, ok := l.cache.Get(postID); ok {
		return forest.([]*Comment), nil
	}

	result, err, shared := l.group.Do(postID, func() (any, error) {
		// A concurrent caller may have populated the cache while this
		// call was waiting its turn.
		if forest, ok := l.cache.Get(postID); ok {
			return forest, nil
		}

		listing, err := l.client.Comments(ctx, postID, l.depth, l.limit)
		if err != nil {
			return nil, err
		}

		forest := BuildComments(listing)
		l.cache.SetDefault(postID, forest)
		return forest, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.WithField("post", postID).Debug("comment fetch shared with concurrent caller")
	}
	return result.([]*Comment), nil
}

// Invalidate drops a post's cached forest, if any.
func (l *CommentLoader) Invalidate(postID string) {
	l.cache.Delete(postID)
}

// InvalidatePosts drops the cached forests of all given posts. Feeds call
// this on removal so a deleted feed leaves nothing behind.
func (l *CommentLoader) InvalidatePosts(posts []*Post) {
	for _, post := range posts {
		l.cache.Delete(post.ID)
	}
}
