// Package feed implements the subreddit feed domain: normalizing raw
// upstream records into typed posts, paginated entry loading, metadata,
// and cached comment trees. Presentation layers observe feeds through
// their event hub and drive them through the public methods; they are
// expected to serialize fetches per feed (see FetchEntries).
package feed

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"reddlist/internal/events"
	"reddlist/internal/reddit"
)

// Events a Feed's hub declares. Finish events fire on success and failure
// alike so observers can always stop a loading indicator; on failure the
// "err" payload field is set and the matching error slot on the feed holds
// the same value.
const (
	EventFetchEntriesStart   = "fetch-entries-start"
	EventFetchEntriesFinish  = "fetch-entries-finish" // fields: count, err
	EventFetchMetadataStart  = "fetch-metadata-start"
	EventFetchMetadataFinish = "fetch-metadata-finish" // fields: err
	EventSortChanged         = "sort-changed"          // fields: sort
	EventRemoved             = "removed"
)

// pageState is the explicit pagination tri-state. The upstream's own
// "after" field decides exhaustion: an empty after in a response means no
// further pages, not "start over".
type pageState int

const (
	pageNotStarted pageState = iota
	pageHasMore
	pageExhausted
)

// Metadata is the /about record of a feed, populated by FetchMetadata.
type Metadata struct {
	DisplayName string
	Description string
	BannerURL   string
	IconURL     string
}

// SavedFeed is the persisted shape of a feed: just its identity and sort
// mode. Entries and comments are never persisted.
type SavedFeed struct {
	Name string `json:"name"`
	Sort Sort   `json:"sort"`
}

// Feed is the aggregate root for one subreddit: its sort mode, its
// paginated entries, metadata, and the event hub observers attach to.
//
// Methods are safe to call from multiple goroutines, but the pagination
// contract is the caller's: do not start a second FetchEntries for the
// same feed until the first has returned, or pages may interleave.
type Feed struct {
	name   string
	hub    *events.Hub
	client *reddit.Client
	loader *CommentLoader

	mu       sync.Mutex
	sortMode Sort
	entries  []*Post
	seen     map[string]struct{}
	page     pageState
	after    string
	meta     Metadata
	lastErr  error
	metaErr  error
	removed  bool
}

// New creates a feed for the given subreddit name. The name is expected to
// be validated and lowercased by the caller (see internal/validation).
func New(name string, sortMode Sort, client *reddit.Client, loader *CommentLoader) (*Feed, error) {
	if !sortMode.Valid() {
		return nil, &InvalidSortModeError{Input: string(sortMode)}
	}

	hub := events.New(
		events.EventSpec{Name: EventFetchEntriesStart},
		events.EventSpec{Name: EventFetchEntriesFinish, Fields: []string{"count", "err"}},
		events.EventSpec{Name: EventFetchMetadataStart},
		events.EventSpec{Name: EventFetchMetadataFinish, Fields: []string{"err"}},
		events.EventSpec{Name: EventSortChanged, Fields: []string{"sort"}},
		events.EventSpec{Name: EventRemoved},
	)

	return &Feed{
		name:     name,
		hub:      hub,
		client:   client,
		loader:   loader,
		sortMode: sortMode,
		seen:     make(map[string]struct{}),
	}, nil
}

// Restore reconstructs a feed from its persisted shape.
func Restore(saved SavedFeed, client *reddit.Client, loader *CommentLoader) (*Feed, error) {
	return New(saved.Name, saved.Sort, client, loader)
}

// Hub exposes the feed's event hub for observers.
func (f *Feed) Hub() *events.Hub {
	return f.hub
}

func (f *Feed) Name() string {
	return f.name
}

func (f *Feed) SortMode() Sort {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortMode
}

// Entries returns the current entry sequence in upstream rank order.
func (f *Feed) Entries() []*Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := make([]*Post, len(f.entries))
	copy(entries, f.entries)
	return entries
}

func (f *Feed) Meta() Metadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta
}

// LastError returns the error of the most recent entry fetch, or nil if it
// succeeded. A feed with an error set is retryable, not dead.
func (f *Feed) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// MetadataError is the independent error slot of FetchMetadata.
func (f *Feed) MetadataError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metaErr
}

// HasMore reports whether the upstream indicated another page.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page == pageHasMore
}

// Exhausted reports whether the upstream indicated the end of the feed.
// Both HasMore and Exhausted are false before the first fetch.
func (f *Feed) Exhausted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page == pageExhausted
}

// After returns the pagination cursor of the last fetched page, or "".
func (f *Feed) After() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.after
}

func (f *Feed) Removed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removed
}

// Serialize returns the persistable shape of the feed.
func (f *Feed) Serialize() SavedFeed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return SavedFeed{Name: f.name, Sort: f.sortMode}
}

// FetchEntries loads one page of entries. An empty after replaces the
// entry list (a fresh load); a non-empty after appends the next page.
// Records that fail classification are skipped and logged, never aborting
// the page; duplicates by id across pages are dropped. On a whole-request
// failure the entry list is left untouched, LastError is set, and the
// finish event still fires.
func (f *Feed) FetchEntries(ctx context.Context, after string) error {
	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return ErrRemoved
	}
	name, sortMode := f.name, f.sortMode
	f.mu.Unlock()

	f.emit(EventFetchEntriesStart, nil)

	listing, err := f.client.Listing(ctx, name, sortMode.String(), after)

	f.mu.Lock()
	if f.removed {
		// Removed while the request was in flight: drop the result.
		f.mu.Unlock()
		return ErrRemoved
	}

	if err != nil {
		f.lastErr = err
		count := len(f.entries)
		f.mu.Unlock()
		f.emit(EventFetchEntriesFinish, events.Payload{"count": count, "err": err})
		return err
	}

	if after == "" {
		f.entries = nil
		f.seen = make(map[string]struct{})
	}

	for _, thing := range listing.Data.Children {
		raw, decodeErr := thing.Post()
		if decodeErr != nil {
			log.WithField("feed", name).Warnf("skipping undecodable post record: %v", decodeErr)
			continue
		}

		post, classifyErr := Classify(raw)
		if classifyErr != nil {
			log.WithField("feed", name).Warnf("skipping post: %v", classifyErr)
			continue
		}

		if _, dup := f.seen[post.ID]; dup {
			continue
		}
		f.seen[post.ID] = struct{}{}

		post.feedName = name
		post.loader = f.loader
		f.entries = append(f.entries, post)
	}

	if listing.Data.After != "" {
		f.page, f.after = pageHasMore, listing.Data.After
	} else {
		f.page, f.after = pageExhausted, ""
	}
	f.lastErr = nil
	count := len(f.entries)
	f.mu.Unlock()

	f.emit(EventFetchEntriesFinish, events.Payload{"count": count, "err": nil})
	return nil
}

// Refresh fetches the first page, replacing any current entries.
func (f *Feed) Refresh(ctx context.Context) error {
	return f.FetchEntries(ctx, "")
}

// LoadMore fetches the next page using the stored cursor. On a feed that
// never fetched it behaves like Refresh; on an exhausted feed it returns
// ErrExhausted without touching the network.
func (f *Feed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return ErrRemoved
	}
	page, after := f.page, f.after
	f.mu.Unlock()

	switch page {
	case pageExhausted:
		return ErrExhausted
	case pageNotStarted:
		return f.FetchEntries(ctx, "")
	default:
		return f.FetchEntries(ctx, after)
	}
}

// FetchMetadata loads the feed's /about record into Meta. Failures land in
// the independent MetadataError slot; entries are unaffected.
func (f *Feed) FetchMetadata(ctx context.Context) error {
	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return ErrRemoved
	}
	name := f.name
	f.mu.Unlock()

	f.emit(EventFetchMetadataStart, nil)

	about, err := f.client.About(ctx, name)
	if err == nil && about.DisplayName == "" {
		err = &MalformedMetadataError{Feed: name, Err: errors.New("missing display name")}
	}

	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return ErrRemoved
	}

	if err != nil {
		f.metaErr = err
		f.mu.Unlock()
		f.emit(EventFetchMetadataFinish, events.Payload{"err": err})
		return err
	}

	f.meta = Metadata{
		DisplayName: about.DisplayName,
		Description: about.PublicDescription,
		BannerURL:   about.BannerBackground,
		IconURL:     about.Icon(),
	}
	f.metaErr = nil
	f.mu.Unlock()

	f.emit(EventFetchMetadataFinish, events.Payload{"err": nil})
	return nil
}

// Fetch is the combined first load: entries, then metadata. Both error
// slots are filled independently; the returned error joins whatever
// failed.
func (f *Feed) Fetch(ctx context.Context) error {
	return errors.Join(f.Refresh(ctx), f.FetchMetadata(ctx))
}

// SetSort switches the sort mode, clears the entries and resets the
// cursor. It emits sort-changed but deliberately does not refetch; the
// caller controls refetch timing.
func (f *Feed) SetSort(mode Sort) error {
	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return ErrRemoved
	}
	if !mode.Valid() {
		f.mu.Unlock()
		return &InvalidSortModeError{Input: string(mode)}
	}

	f.sortMode = mode
	f.entries = nil
	f.seen = make(map[string]struct{})
	f.page, f.after = pageNotStarted, ""
	f.mu.Unlock()

	f.emit(EventSortChanged, events.Payload{"sort": mode})
	return nil
}

// Remove makes the feed inert and drops its posts' cached comments. An
// in-flight fetch finishing after Remove discards its result. Calling
// anything else on a removed feed is a caller error and reports
// ErrRemoved.
func (f *Feed) Remove() {
	f.mu.Lock()
	if f.removed {
		f.mu.Unlock()
		return
	}
	f.removed = true
	posts := f.entries
	f.mu.Unlock()

	if f.loader != nil {
		f.loader.InvalidatePosts(posts)
	}
	f.emit(EventRemoved, nil)
}

func (f *Feed) emit(event string, payload events.Payload) {
	if err := f.hub.Emit(event, payload); err != nil {
		// Only reachable through a wiring bug; the declarations above
		// cover every field we send.
		log.WithField("feed", f.name).Errorf("emit %s: %v", event, err)
	}
}
