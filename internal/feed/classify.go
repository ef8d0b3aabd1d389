package feed

import (
	"sort"

	"github.com/samber/lo"

	"reddlist/internal/format"
	"reddlist/internal/reddit"
)

// Classify normalizes a raw upstream post record into a Post with a
// kind-tagged content payload. The upstream sets its hint fields
// inconsistently, so the kind is decided by a fixed priority chain, first
// match wins:
//
//	image hint > gallery > video > poll > crosspost > self text > link
//
// Classify is pure: same record in, same Post out, no side effects.
// Records missing an id, author or title fail with *MalformedPostError;
// the caller decides whether to skip or abort (fetches skip).
func Classify(raw *reddit.PostData) (*Post, error) {
	return classify(raw, 0)
}

func classify(raw *reddit.PostData, depth int) (*Post, error) {
	if err := checkRecord(raw); err != nil {
		return nil, err
	}

	permalink := raw.Permalink
	if permalink != "" {
		permalink = "https://www.reddit.com" + permalink
	}

	return &Post{
		ID:           raw.ID,
		FullName:     raw.Name,
		Title:        raw.Title,
		Author:       raw.Author,
		Score:        raw.Score,
		CommentCount: raw.NumComments,
		CreatedUTC:   int64(raw.Created),
		Thumbnail:    raw.Thumbnail,
		Permalink:    permalink,
		Content:      classifyContent(raw, depth),
	}, nil
}

func checkRecord(raw *reddit.PostData) error {
	var missing []string
	if raw.ID == "" {
		missing = append(missing, "id")
	}
	if raw.Author == "" {
		missing = append(missing, "author")
	}
	if raw.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return &MalformedPostError{ID: raw.ID, Missing: missing}
	}
	return nil
}

func classifyContent(raw *reddit.PostData, depth int) Content {
	if raw.PostHint == "image" {
		return ImageContent{URL: format.UnescapeHTML(raw.DestURL)}
	}
	if raw.IsGallery {
		return GalleryContent{URLs: galleryURLs(raw)}
	}
	if raw.IsVideo {
		return VideoContent{Streams: videoStreams(raw)}
	}
	if raw.HasPollData() {
		return PollContent{Raw: raw.PollData}
	}
	// One level of crosspost recursion, first listed parent only. A
	// missing or malformed parent record degrades to the remaining
	// branches instead of failing the whole post.
	if raw.CrosspostParent != "" && depth == 0 && len(raw.CrosspostParentList) > 0 {
		if parent, err := classify(&raw.CrosspostParentList[0], depth+1); err == nil {
			return CrosspostContent{Parent: parent}
		}
	}
	if raw.IsSelf {
		return TextContent{HTML: raw.SelftextHTML}
	}
	return LinkContent{URL: raw.DestURL}
}

// galleryURLs resolves the ordered image URLs of a gallery post. Order
// comes from gallery_data when present (media_metadata is an unordered
// map); entries without a resolvable source URL are dropped, not failed.
func galleryURLs(raw *reddit.PostData) []string {
	if len(raw.MediaMetadata) == 0 {
		return nil
	}

	var ids []string
	if raw.GalleryData != nil {
		ids = lo.Map(raw.GalleryData.Items, func(item reddit.GalleryItem, _ int) string {
			return item.MediaID
		})
	} else {
		ids = lo.Keys(raw.MediaMetadata)
		sort.Strings(ids)
	}

	return lo.FilterMap(ids, func(id string, _ int) (string, bool) {
		meta, ok := raw.MediaMetadata[id]
		if !ok || meta.S.U == "" {
			return "", false
		}
		return format.UnescapeHTML(meta.S.U), true
	})
}

// videoStreams lists candidate stream URLs in preference order: HLS,
// DASH, then the progressive fallback.
func videoStreams(raw *reddit.PostData) []string {
	if raw.Media == nil || raw.Media.RedditVideo == nil {
		return nil
	}

	video := raw.Media.RedditVideo
	return lo.FilterMap([]string{video.HLSURL, video.DashURL, video.FallbackURL},
		func(u string, _ int) (string, bool) {
			if u == "" {
				return "", false
			}
			return format.UnescapeHTML(u), true
		})
}
