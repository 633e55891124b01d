package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WrapperCache fetches and caches the third-party service-wrapper helper
// binary used on platforms where the supervisor needs one. The fetch is
// bounded per attempt and retried with exponential backoff; it never
// blocks indefinitely.
type WrapperCache struct {
	// URL is the helper archive location.
	URL string

	// Dir is the local cache directory.
	Dir string

	// Client is the HTTP client; http.DefaultClient when nil.
	Client *http.Client

	// AttemptTimeout bounds each individual download attempt.
	AttemptTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64
}

// NewWrapperCache creates a cache for the helper at url under dir.
func NewWrapperCache(rawURL, dir string) *WrapperCache {
	return &WrapperCache{
		URL:            rawURL,
		Dir:            dir,
		AttemptTimeout: 30 * time.Second,
		MaxRetries:     2,
	}
}

// Ensure returns the local path of the cached helper, downloading it on
// first use. An already-cached helper is returned without network
// access.
func (c *WrapperCache) Ensure(ctx context.Context) (string, error) {
	u, err := url.Parse(c.URL)
	if err != nil {
		return "", fmt.Errorf("invalid wrapper URL %q: %w", c.URL, err)
	}

	target := filepath.Join(c.Dir, filepath.Base(u.Path))
	if _, err := os.Stat(target); err == nil {
		slog.Debug("service wrapper already cached", "path", target)
		return target, nil
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create wrapper cache dir: %w", err)
	}

	op := func() error {
		return c.fetch(ctx, target)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries), ctx)

	if err := backoff.Retry(op, policy); err != nil {
		return "", fmt.Errorf("failed to fetch service wrapper from %q: %w", c.URL, err)
	}

	slog.Info("service wrapper cached", "url", c.URL, "path", target)
	return target, nil
}

func (c *WrapperCache) fetch(ctx context.Context, target string) error {
	timeout := c.AttemptTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(err)
		}
		return err
	}

	tmp := target + ".partial"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return backoff.Permanent(err)
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
