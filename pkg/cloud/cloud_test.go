package cloud

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobServer is an in-memory blob endpoint that records the last PUT.
type blobServer struct {
	mu      sync.Mutex
	body    []byte
	headers http.Header
	status  int
}

func (b *blobServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.status != 0 {
		w.WriteHeader(b.status)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if b.body == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(b.body)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		b.body = body
		b.headers = r.Header.Clone()
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func setupTestClient(t *testing.T) (*Client, *blobServer, string) {
	t.Helper()
	blob := &blobServer{}
	srv := httptest.NewServer(blob)
	t.Cleanup(srv.Close)

	c := New(time.Second, zerolog.Nop())
	c.now = func() time.Time { return time.Date(2022, 11, 17, 18, 0, 9, 0, time.UTC) }
	return c, blob, srv.URL + "/container/taskList.json?sig=abc"
}

func TestPutSendsBlobHeaders(t *testing.T) {
	c, blob, url := setupTestClient(t)

	require.NoError(t, c.Put(context.Background(), url, []byte(`[{"title":"t1"}]`)))

	assert.Equal(t, `[{"title":"t1"}]`, string(blob.body))
	assert.Equal(t, "BlockBlob", blob.headers.Get("x-ms-blob-type"))
	assert.Equal(t, "2019-12-12", blob.headers.Get("x-ms-version"))
	assert.Equal(t, "Thu, 17 Nov 2022 18:00:09 GMT", blob.headers.Get("x-ms-date"))
	assert.Equal(t, "text/plain", blob.headers.Get("Content-Type"))
}

func TestGetReturnsLastPut(t *testing.T) {
	c, _, url := setupTestClient(t)
	ctx := context.Background()

	_, err := c.Get(ctx, url)
	assert.ErrorContains(t, err, "status 404")

	require.NoError(t, PutJSON(ctx, c, url, []string{"a", "b"}))
	got, err := GetJSON[[]string](ctx, c, url)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   []byte
		call   func(c *Client, url string) error
		want   string
	}{
		{
			name:   "put rejected",
			status: http.StatusForbidden,
			call: func(c *Client, url string) error {
				return c.Put(context.Background(), url, []byte("x"))
			},
			want: "status 403",
		},
		{
			name:   "get server error",
			status: http.StatusInternalServerError,
			call: func(c *Client, url string) error {
				_, err := c.Get(context.Background(), url)
				return err
			},
			want: "status 500",
		},
		{
			name: "undecodable blob",
			body: []byte("<html>"),
			call: func(c *Client, url string) error {
				_, err := GetJSON[[]string](context.Background(), c, url)
				return err
			},
			want: "decode blob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, blob, url := setupTestClient(t)
			blob.status = tt.status
			blob.body = tt.body
			assert.ErrorContains(t, tt.call(c, url), tt.want)
		})
	}
}

func TestNoLocation(t *testing.T) {
	c := New(0, zerolog.Nop())
	ctx := context.Background()

	_, err := c.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNoLocation)
	assert.ErrorIs(t, c.Put(ctx, "", nil), ErrNoLocation)
	assert.ErrorIs(t, PutJSON(ctx, c, "", 1), ErrNoLocation)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := New(50*time.Millisecond, zerolog.Nop())
	start := time.Now()
	_, err := c.Get(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestContextCancel(t *testing.T) {
	c, _, url := setupTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Put(ctx, url, []byte("x")), context.Canceled)
}
