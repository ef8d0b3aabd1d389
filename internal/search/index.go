// Package search maintains an in-memory full-text index over fetched
// posts so the user can grep across every feed they follow.
package search

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"reddlist/internal/feed"
)

// Result is a single search hit.
type Result struct {
	FeedName string
	PostID   string
	Title    string
	Author   string
	Score    float64
}

// Index wraps a memory-only bleve index. Posts are indexed as they are
// fetched and the index is discarded with the process; nothing persists.
type Index struct {
	idx bleve.Index
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true

	author := bleve.NewTextFieldMapping()
	author.Analyzer = standard.Name
	author.Store = true

	body := bleve.NewTextFieldMapping()
	body.Analyzer = standard.Name
	body.Store = false

	feedName := bleve.NewTextFieldMapping()
	feedName.Analyzer = standard.Name
	feedName.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("author", author)
	dm.AddFieldMappingsAt("body", body)
	dm.AddFieldMappingsAt("feed", feedName)

	im.DefaultMapping = dm
	return im
}

// IndexPosts adds or updates the given posts in a single batch.
func (ix *Index) IndexPosts(feedName string, posts []*feed.Post) error {
	batch := ix.idx.NewBatch()
	for _, p := range posts {
		doc := map[string]any{
			"feed":   feedName,
			"title":  p.Title,
			"author": p.Author,
		}
		// Self posts contribute their body text to the index.
		if tc, ok := p.Content.(feed.TextContent); ok {
			doc["body"] = tc.HTML
		}
		if err := batch.Index(docID(feedName, p.ID), doc); err != nil {
			return err
		}
	}
	return ix.idx.Batch(batch)
}

// RemoveFeed deletes every indexed post belonging to the feed. The CLI
// rebuilds its index per invocation and never needs this; it exists for
// callers that keep one index alive across feed removals, mirroring how
// feed removal also drops the posts' cached comments.
func (ix *Index) RemoveFeed(feedName string) error {
	tq := bleve.NewTermQuery(strings.ToLower(feedName))
	tq.SetField("feed")

	for {
		req := bleve.NewSearchRequestOptions(tq, 1000, 0, false)
		res, err := ix.idx.Search(req)
		if err != nil {
			return err
		}
		if len(res.Hits) == 0 {
			return nil
		}
		for _, h := range res.Hits {
			if err := ix.idx.Delete(h.ID); err != nil {
				return err
			}
		}
	}
}

// Search runs a boosted disjunction query over title, author and body.
// Queries shorter than two characters return no results.
func (ix *Index) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}

	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)

		qa := bleve.NewMatchQuery(tok)
		qa.SetField("author")
		qa.SetBoost(2.0)
		qs = append(qs, qa)

		qb := bleve.NewMatchQuery(tok)
		qb.SetField("body")
		qb.SetBoost(1.0)
		qs = append(qs, qb)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}

	q := bleve.NewDisjunctionQuery(qs...)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"feed", "title", "author"}

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		r := &Result{Score: h.Score, PostID: postIDFromDocID(h.ID)}
		if f, ok := h.Fields["feed"].(string); ok {
			r.FeedName = f
		}
		if t, ok := h.Fields["title"].(string); ok {
			r.Title = t
		}
		if a, ok := h.Fields["author"].(string); ok {
			r.Author = a
		}
		out = append(out, r)
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (ix *Index) DocCount() (int, error) {
	n, err := ix.idx.DocCount()
	return int(n), err
}

// Close releases index resources.
func (ix *Index) Close() error {
	return ix.idx.Close()
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.TrimSpace(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

func docID(feedName, postID string) string {
	return strings.ToLower(feedName) + ":" + postID
}

func postIDFromDocID(id string) string {
	if i := strings.IndexByte(id, ':'); i >= 0 {
		return id[i+1:]
	}
	return id
}
