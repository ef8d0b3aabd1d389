package feed

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddlist/internal/reddit"
)

func basePost() *reddit.PostData {
	return &reddit.PostData{
		ID:      "abc",
		Name:    "t3_abc",
		Title:   "A post",
		Author:  "someone",
		Score:   10,
		Created: 1700000000,
	}
}

func TestClassify_Malformed(t *testing.T) {
	raw := basePost()
	raw.Author = ""
	raw.Title = ""

	_, err := Classify(raw)

	var malformed *MalformedPostError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "abc", malformed.ID)
	assert.Equal(t, []string{"author", "title"}, malformed.Missing)
}

func TestClassify_PriorityOrder(t *testing.T) {
	tests := []struct {
		name string
		prep func(*reddit.PostData)
		want ContentKind
	}{
		{
			name: "image hint wins over everything",
			prep: func(p *reddit.PostData) {
				p.PostHint = "image"
				p.IsGallery = true
				p.IsSelf = true
				p.DestURL = "https://i.redd.it/x.png"
			},
			want: KindImage,
		},
		{
			name: "gallery beats self flag",
			prep: func(p *reddit.PostData) {
				p.IsGallery = true
				p.IsSelf = true
			},
			want: KindGallery,
		},
		{
			name: "video beats poll",
			prep: func(p *reddit.PostData) {
				p.IsVideo = true
				p.PollData = json.RawMessage(`{"options":[]}`)
			},
			want: KindVideo,
		},
		{
			name: "poll beats crosspost",
			prep: func(p *reddit.PostData) {
				p.PollData = json.RawMessage(`{"options":[]}`)
				p.CrosspostParent = "t3_parent"
				p.CrosspostParentList = []reddit.PostData{*basePost()}
			},
			want: KindPoll,
		},
		{
			name: "null poll data does not count",
			prep: func(p *reddit.PostData) {
				p.PollData = json.RawMessage(`null`)
				p.IsSelf = true
			},
			want: KindText,
		},
		{
			name: "self flag beats default",
			prep: func(p *reddit.PostData) {
				p.IsSelf = true
				p.SelftextHTML = "&lt;p&gt;hi&lt;/p&gt;"
			},
			want: KindText,
		},
		{
			name: "link is the default",
			prep: func(p *reddit.PostData) {
				p.DestURL = "https://example.com"
			},
			want: KindLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := basePost()
			tt.prep(raw)

			post, err := Classify(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, post.Kind())
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	raw := basePost()
	raw.IsGallery = true
	raw.GalleryData = &reddit.GalleryData{Items: []reddit.GalleryItem{{MediaID: "m1"}}}
	raw.MediaMetadata = map[string]reddit.MediaMeta{"m1": galleryMeta("https://img/1.png")}

	first, err := Classify(raw)
	require.NoError(t, err)
	second, err := Classify(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func galleryMeta(url string) reddit.MediaMeta {
	var meta reddit.MediaMeta
	meta.S.U = url
	return meta
}

func TestClassify_GalleryDropsUnresolvableEntries(t *testing.T) {
	raw := basePost()
	raw.IsGallery = true
	raw.GalleryData = &reddit.GalleryData{Items: []reddit.GalleryItem{
		{MediaID: "m1"}, {MediaID: "m2"}, {MediaID: "m3"},
	}}
	raw.MediaMetadata = map[string]reddit.MediaMeta{
		"m1": galleryMeta("https://img/1.png?a=1&amp;b=2"),
		"m2": galleryMeta(""), // unprocessed upstream, no source URL
		"m3": galleryMeta("https://img/3.png"),
	}

	post, err := Classify(raw)
	require.NoError(t, err)

	gallery, ok := post.Content.(GalleryContent)
	require.True(t, ok)
	assert.Equal(t, []string{"https://img/1.png?a=1&b=2", "https://img/3.png"}, gallery.URLs)
}

func TestClassify_GalleryWithoutOrderFallsBackToSortedKeys(t *testing.T) {
	raw := basePost()
	raw.IsGallery = true
	raw.MediaMetadata = map[string]reddit.MediaMeta{
		"b": galleryMeta("https://img/b.png"),
		"a": galleryMeta("https://img/a.png"),
	}

	post, err := Classify(raw)
	require.NoError(t, err)

	gallery := post.Content.(GalleryContent)
	assert.Equal(t, []string{"https://img/a.png", "https://img/b.png"}, gallery.URLs)
}

func TestClassify_VideoStreamOrder(t *testing.T) {
	raw := basePost()
	raw.IsVideo = true
	raw.Media = &reddit.Media{RedditVideo: &reddit.RedditVideo{
		HLSURL:      "https://v/hls.m3u8",
		DashURL:     "",
		FallbackURL: "https://v/fallback.mp4",
	}}

	post, err := Classify(raw)
	require.NoError(t, err)

	video := post.Content.(VideoContent)
	assert.Equal(t, []string{"https://v/hls.m3u8", "https://v/fallback.mp4"}, video.Streams)
}

func TestClassify_CrosspostRecursesOneLevel(t *testing.T) {
	grandparent := basePost()
	grandparent.ID = "gp"
	grandparent.IsSelf = true

	parent := basePost()
	parent.ID = "parent"
	parent.IsSelf = true
	// The parent claims to be a crosspost itself; only one level of
	// recursion is followed, so it classifies by its remaining hints.
	parent.CrosspostParent = "t3_gp"
	parent.CrosspostParentList = []reddit.PostData{*grandparent}

	raw := basePost()
	raw.CrosspostParent = "t3_parent"
	raw.CrosspostParentList = []reddit.PostData{*parent}

	post, err := Classify(raw)
	require.NoError(t, err)

	crosspost, ok := post.Content.(CrosspostContent)
	require.True(t, ok)
	assert.Equal(t, "parent", crosspost.Parent.ID)
	assert.Equal(t, KindText, crosspost.Parent.Kind())
}

func TestClassify_CrosspostWithoutParentListFallsBack(t *testing.T) {
	raw := basePost()
	raw.CrosspostParent = "t3_gone"
	raw.DestURL = "https://example.com"

	post, err := Classify(raw)
	require.NoError(t, err)
	assert.Equal(t, KindLink, post.Kind())
}

func TestClassify_TextBodyKeptEscaped(t *testing.T) {
	raw := basePost()
	raw.IsSelf = true
	raw.SelftextHTML = "&lt;p&gt;hi&lt;/p&gt;"

	post, err := Classify(raw)
	require.NoError(t, err)

	// The body stays pre-rendered/escaped; unescaping is a render
	// concern.
	text := post.Content.(TextContent)
	assert.Equal(t, "&lt;p&gt;hi&lt;/p&gt;", text.HTML)
}

func TestClassify_Permalink(t *testing.T) {
	raw := basePost()
	raw.Permalink = "/r/test/comments/abc/a_post/"

	post, err := Classify(raw)
	require.NoError(t, err)
	assert.Equal(t, "https://www.reddit.com/r/test/comments/abc/a_post/", post.Permalink)
}
