package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompactNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{42, "42"},
		{999, "1K"},
		{1234, "1.2K"},
		{15300, "15.3K"},
		{3400000, "3.4M"},
		{2100000000, "2.1B"},
		{-7, "-7"},
		{-1234, "-1.2K"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompactNumber(tt.in), "CompactNumber(%d)", tt.in)
	}
}

func TestRelTimeAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds ago"},
		{time.Minute, "1 minute ago"},
		{5 * time.Minute, "5 minutes ago"},
		{3 * time.Hour, "3 hours ago"},
		{48 * time.Hour, "2 days ago"},
		{14 * 24 * time.Hour, "2 weeks ago"},
	}

	for _, tt := range tests {
		ts := now.Add(-tt.ago).Unix()
		assert.Equal(t, tt.want, RelTimeAt(ts, now))
	}
}

func TestUnescapeHTML(t *testing.T) {
	assert.Equal(t, "a&b", UnescapeHTML("a&amp;b"))
	assert.Equal(t, "a&b", UnescapeHTML("a&amp;amp;b"), "double-escaped ampersand")
	assert.Equal(t, `<a href="x">'hi'</a>`, UnescapeHTML("&lt;a href=&quot;x&quot;&gt;&#39;hi&#039;&lt;/a&gt;"))
	assert.Equal(t, "https://img/x.png?a=1&b=2", UnescapeHTML("https://img/x.png?a=1&amp;b=2"))
}
