package sdn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// Retriever fetches the SDN list from a file or an HTTP endpoint. It
// remembers what it last read and returns a nil snapshot when the source
// has not changed since: an HTTP 304 to a conditional request, or a file
// whose size and modification time are unchanged.
type Retriever struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	remote string
	path   string

	mu           sync.Mutex
	etag         string
	lastModified string
	fileSize     int64
	fileModTime  time.Time
	fetched      bool
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Retriever) {
		if c != nil {
			r.client = c
		}
	}
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Retriever) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRetriever creates a Retriever for cfg.Source.
func NewRetriever(cfg Config, opts ...Option) (*Retriever, error) {
	if cfg.Source == "" {
		return nil, fmt.Errorf("%w: empty source", ErrInvalidArgument)
	}

	r := &Retriever{
		cfg:    cfg,
		client: http.DefaultClient,
		logger: slog.Default(),
		path:   cfg.Source,
	}

	if u, err := url.Parse(cfg.Source); err == nil {
		switch u.Scheme {
		case "http", "https":
			r.remote = cfg.Source
			r.path = ""
		case "file":
			r.path = u.Path
		}
	}

	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Source returns the configured source.
func (r *Retriever) Source() string {
	return r.cfg.Source
}

// Fetch reads the list if it changed since the last successful Fetch.
func (r *Retriever) Fetch(ctx context.Context) (*snapshot.Snapshot[int, *Entry], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t := r.cfg.Timeout.Std(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	if r.remote != "" {
		return r.fetchHTTP(ctx)
	}
	return r.fetchFile(ctx)
}

func (r *Retriever) fetchHTTP(ctx context.Context) (*snapshot.Snapshot[int, *Entry], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.remote, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	if r.etag != "" {
		req.Header.Set("If-None-Match", r.etag)
	}
	if r.lastModified != "" {
		req.Header.Set("If-Modified-Since", r.lastModified)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		r.logger.DebugContext(ctx, "sdn list not modified", "source", r.remote)
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrFetch, r.remote, resp.Status)
	}

	snap, err := Load(ctx, resp.Body)
	if err != nil {
		return nil, err
	}

	r.etag = resp.Header.Get("ETag")
	r.lastModified = resp.Header.Get("Last-Modified")
	r.logger.DebugContext(ctx, "sdn list downloaded",
		"source", r.remote,
		"entries", snap.Len(),
		"etag", r.etag)

	return snap, nil
}

func (r *Retriever) fetchFile(ctx context.Context) (*snapshot.Snapshot[int, *Entry], error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if r.fetched && info.Size() == r.fileSize && info.ModTime().Equal(r.fileModTime) {
		r.logger.DebugContext(ctx, "sdn list not modified", "source", r.path)
		return nil, nil
	}

	snap, err := LoadFile(ctx, r.path)
	if err != nil {
		return nil, err
	}

	r.fileSize = info.Size()
	r.fileModTime = info.ModTime()
	r.fetched = true
	r.logger.DebugContext(ctx, "sdn list read",
		"source", r.path,
		"entries", snap.Len(),
		"size", r.fileSize)

	return snap, nil
}
