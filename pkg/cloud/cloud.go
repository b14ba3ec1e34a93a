// Package cloud reads and overwrites a single blob behind a pre-signed URL.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 10 * time.Second

	blobType    = "BlockBlob"
	blobVersion = "2019-12-12"
	contentType = "text/plain"
)

// ErrNoLocation is returned when no blob URL is configured.
var ErrNoLocation = errors.New("no cloud save location")

// Client talks to the blob endpoint. The zero value is not usable; use New.
type Client struct {
	http   *http.Client
	logger zerolog.Logger
	now    func() time.Time
}

// New returns a client whose requests give up after timeout. A timeout of
// zero or less uses DefaultTimeout.
func New(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
		now:    time.Now,
	}
}

// Get fetches the blob at url.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoLocation
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}
	defer c.close(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get blob: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read blob body: %w", err)
	}
	return body, nil
}

// Put overwrites the blob at url with body.
func (c *Client) Put(ctx context.Context, url string, body []byte) error {
	if url == "" {
		return ErrNoLocation
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-ms-blob-type", blobType)
	req.Header.Set("x-ms-version", blobVersion)
	req.Header.Set("x-ms-date", c.now().UTC().Format(http.TimeFormat))
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("put blob: %w", err)
	}
	defer c.close(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put blob: status %d", resp.StatusCode)
	}
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) close(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("cloud: close response body")
	}
}

// GetJSON fetches the blob at url and decodes it as JSON.
func GetJSON[T any](ctx context.Context, c *Client, url string) (T, error) {
	var v T
	body, err := c.Get(ctx, url)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode blob: %w", err)
	}
	return v, nil
}

// PutJSON encodes v as JSON and overwrites the blob at url with it.
func PutJSON[T any](ctx context.Context, c *Client, url string, v T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode blob: %w", err)
	}
	return c.Put(ctx, url, body)
}
