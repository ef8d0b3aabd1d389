package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddlist/internal/reddit"
)

const commentsResponse = `[
	{"kind":"Listing","data":{"after":"","children":[]}},
	{"kind":"Listing","data":{"after":"","children":[
		{"kind":"t1","data":{"id":"c1","body":"hello","author":"alice","score":1,"replies":""}}
	]}}
]`

func newLoaderServer(t *testing.T, calls *atomic.Int64, block <-chan struct{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if block != nil {
			<-block
		}
		w.Write([]byte(commentsResponse))
	}))
}

func newLoader(url string, ttl time.Duration) *CommentLoader {
	client := reddit.NewClient(reddit.Config{BaseURL: url})
	return NewCommentLoader(client, CommentConfig{TTL: ttl})
}

func TestCommentLoader_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int64
	server := newLoaderServer(t, &calls, nil)
	defer server.Close()

	loader := newLoader(server.URL, time.Minute)

	first, err := loader.Load(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := loader.Load(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load(), "second load must come from cache")
}

func TestCommentLoader_ExpiresAfterTTL(t *testing.T) {
	var calls atomic.Int64
	server := newLoaderServer(t, &calls, nil)
	defer server.Close()

	loader := newLoader(server.URL, 50*time.Millisecond)

	_, err := loader.Load(context.Background(), "abc")
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)

	_, err = loader.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load(), "expired entry must refetch")
}

func TestCommentLoader_Invalidate(t *testing.T) {
	var calls atomic.Int64
	server := newLoaderServer(t, &calls, nil)
	defer server.Close()

	loader := newLoader(server.URL, time.Minute)

	_, err := loader.Load(context.Background(), "abc")
	require.NoError(t, err)

	loader.Invalidate("abc")

	_, err = loader.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCommentLoader_ConcurrentLoadsShareOneFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	server := newLoaderServer(t, &calls, release)
	defer server.Close()

	loader := newLoader(server.URL, time.Minute)

	var wg sync.WaitGroup
	results := make([][]*Comment, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = loader.Load(context.Background(), "abc")
		}(i)
	}

	// Let both callers reach the loader before the upstream answers.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, int64(1), calls.Load(), "concurrent loads must share one upstream fetch")
}

func TestCommentLoader_DistinctPostsFetchSeparately(t *testing.T) {
	var calls atomic.Int64
	server := newLoaderServer(t, &calls, nil)
	defer server.Close()

	loader := newLoader(server.URL, time.Minute)

	_, err := loader.Load(context.Background(), "one")
	require.NoError(t, err)
	_, err = loader.Load(context.Background(), "two")
	require.NoError(t, err)

	assert.Equal(t, int64(2), calls.Load())
}
