// Package resource fetches external textual content for the read and run functions.
//
// Locators are local paths (optionally prefixed with "file://") or http(s) URLs. Content is
// decoded to UTF-8: HTTP bodies by their Content-Type charset, files by their byte order mark.
package resource

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Fetcher resolves a resource locator to its decoded text content.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, locator string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, locator string) (string, error) {
	return f(ctx, locator)
}

// DefaultMaxSize is the largest resource the default fetcher reads.
const DefaultMaxSize = 16 << 20

type options struct {
	client  *http.Client
	maxSize int64
}

// Option configures the default fetcher.
type Option func(*options)

// WithHTTPClient sets the client used for http(s) locators.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithMaxSize limits the number of bytes read from a resource.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

type defaultFetcher struct {
	opts options
}

// Default returns a fetcher for local files and http(s) URLs.
func Default(opts ...Option) Fetcher {
	o := options{
		client:  &http.Client{Timeout: 30 * time.Second},
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &defaultFetcher{opts: o}
}

func (f *defaultFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch {
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return f.fetchHTTP(ctx, locator)
	default:
		return f.fetchFile(strings.TrimPrefix(locator, "file://"))
	}
}

func (f *defaultFetcher) fetchHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.opts.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	r, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	return readLimited(r, f.opts.maxSize)
}

func (f *defaultFetcher) fetchFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return readLimited(decodeBOM(file), f.opts.maxSize)
}

// FSFetcher reads resources from a file system. Locators are fs.FS paths.
type FSFetcher struct {
	FS fs.FS
}

// Fetch reads the named file from the file system.
func (f FSFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file, err := f.FS.Open(strings.TrimPrefix(locator, "/"))
	if err != nil {
		return "", err
	}
	defer file.Close()
	return readLimited(decodeBOM(file), DefaultMaxSize)
}

// decodeBOM strips a UTF-8 byte order mark and converts UTF-16 content announced by a BOM.
func decodeBOM(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

func readLimited(r io.Reader, max int64) (string, error) {
	if max <= 0 {
		max = DefaultMaxSize
	}
	b, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > max {
		return "", fmt.Errorf("resource exceeds %d bytes", max)
	}
	return string(b), nil
}
