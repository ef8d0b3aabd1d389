package reddit

import (
	"bytes"
	"encoding/json"
)

// Listing is the generic paginated container the API wraps every
// collection in. Children carry their payload as raw JSON because the
// shape differs between posts (t3) and comments (t1/more).
type Listing struct {
	Kind string      `json:"kind"`
	Data ListingData `json:"data"`
}

type ListingData struct {
	After    string  `json:"after"`
	Children []Thing `json:"children"`
}

// Thing is a kind-tagged API object.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Post decodes the thing's payload as a post record.
func (t Thing) Post() (*PostData, error) {
	var post PostData
	if err := json.Unmarshal(t.Data, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Comment decodes the thing's payload as a comment record.
func (t Thing) Comment() (*CommentData, error) {
	var comment CommentData
	if err := json.Unmarshal(t.Data, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// PostData is the raw upstream post record. The hint fields (post_hint,
// is_gallery, is_video, poll_data, crosspost_parent, is_self) are set
// inconsistently upstream; feed.Classify resolves them in a fixed
// priority order.
type PostData struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Title               string               `json:"title"`
	Author              string               `json:"author"`
	Score               int                  `json:"score"`
	NumComments         int                  `json:"num_comments"`
	Created             float64              `json:"created"`
	Thumbnail           string               `json:"thumbnail"`
	Permalink           string               `json:"permalink"`
	DestURL             string               `json:"url_overridden_by_dest"`
	SelftextHTML        string               `json:"selftext_html"`
	PostHint            string               `json:"post_hint"`
	IsSelf              bool                 `json:"is_self"`
	IsGallery           bool                 `json:"is_gallery"`
	IsVideo             bool                 `json:"is_video"`
	PollData            json.RawMessage      `json:"poll_data"`
	CrosspostParent     string               `json:"crosspost_parent"`
	CrosspostParentList []PostData           `json:"crosspost_parent_list"`
	Media               *Media               `json:"media"`
	MediaMetadata       map[string]MediaMeta `json:"media_metadata"`
	GalleryData         *GalleryData         `json:"gallery_data"`
}

// HasPollData reports whether poll_data is present and non-null.
func (p *PostData) HasPollData() bool {
	return len(p.PollData) > 0 && !bytes.Equal(bytes.TrimSpace(p.PollData), []byte("null"))
}

type Media struct {
	RedditVideo *RedditVideo `json:"reddit_video"`
}

// RedditVideo lists the candidate stream URLs for a hosted video, in
// decreasing order of preference: HLS, DASH, progressive fallback.
type RedditVideo struct {
	HLSURL      string `json:"hls_url"`
	DashURL     string `json:"dash_url"`
	FallbackURL string `json:"fallback_url"`
}

// MediaMeta is one entry of the media_metadata map; S.U is the source
// image URL and may be empty for unprocessed entries.
type MediaMeta struct {
	S struct {
		U string `json:"u"`
	} `json:"s"`
}

// GalleryData carries the display order of gallery items; media_metadata
// alone is an unordered map.
type GalleryData struct {
	Items []GalleryItem `json:"items"`
}

type GalleryItem struct {
	MediaID string `json:"media_id"`
}

// CommentData is the raw upstream comment record.
type CommentData struct {
	ID      string  `json:"id"`
	Body    string  `json:"body"`
	Author  string  `json:"author"`
	Score   int     `json:"score"`
	Created float64 `json:"created"`
	Replies Replies `json:"replies"`
}

// Replies is a comment's nested listing. The API encodes "no replies" as
// the empty string instead of an empty listing, so it needs a tolerant
// decoder.
type Replies struct {
	Listing *Listing
}

func (r *Replies) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte(`""`)) || bytes.Equal(trimmed, []byte("null")) {
		r.Listing = nil
		return nil
	}

	var listing Listing
	if err := json.Unmarshal(trimmed, &listing); err != nil {
		return err
	}
	r.Listing = &listing
	return nil
}

func (r Replies) MarshalJSON() ([]byte, error) {
	if r.Listing == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(r.Listing)
}

// Children returns the reply things, or nil when there are none.
func (r Replies) Children() []Thing {
	if r.Listing == nil {
		return nil
	}
	return r.Listing.Data.Children
}

// AboutData is the /r/{feed}/about metadata record. CommunityIcon is the
// primary icon field with IconImg as fallback.
type AboutData struct {
	DisplayName       string `json:"display_name"`
	PublicDescription string `json:"public_description"`
	BannerBackground  string `json:"banner_background_image"`
	CommunityIcon     string `json:"community_icon"`
	IconImg           string `json:"icon_img"`
}

// Icon returns the community icon, falling back to the legacy icon field.
func (a *AboutData) Icon() string {
	if a.CommunityIcon != "" {
		return a.CommunityIcon
	}
	return a.IconImg
}
