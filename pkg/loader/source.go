package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceKind enumerates where a schema document is read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Source identifies a schema document.
type Source struct {
	kind     SourceKind
	location string
}

// Kind returns the source kind.
func (s Source) Kind() SourceKind { return s.kind }

// Location returns the path or URL.
func (s Source) Location() string { return s.location }

// String implements fmt.Stringer.
func (s Source) String() string { return string(s.kind) + ":" + s.location }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return Source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a resource inside the fs.FS
// configured with WithFS.
func SourceFromFS(name string) Source {
	return Source{kind: SourceKindFS, location: name}
}

// SourceFromURL validates raw and returns an HTTP source.
func SourceFromURL(raw string) (Source, error) {
	if raw == "" {
		return Source{}, errors.New("loader: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return Source{}, fmt.Errorf("loader: invalid URL %q: %w", raw, err)
	}
	return Source{kind: SourceKindURL, location: raw}, nil
}

// ParseSource treats http(s) locations as URLs and anything else as a file.
func ParseSource(raw string) (Source, error) {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(raw)
	}
	if strings.TrimSpace(raw) == "" {
		return Source{}, errors.New("loader: file path is required")
	}
	return SourceFromFile(raw), nil
}

func (c config) read(ctx context.Context, src Source) ([]byte, error) {
	switch src.kind {
	case SourceKindFile:
		return loadFile(ctx, src.location)
	case SourceKindFS:
		return loadFromFS(ctx, c.fs, src.location)
	case SourceKindURL:
		return loadHTTP(ctx, c.httpClient(), src.location, c.timeout)
	default:
		return nil, fmt.Errorf("loader: unsupported source kind %q", src.kind)
	}
}

func (c config) httpClient() *http.Client {
	if c.client != nil {
		return c.client
	}
	return &http.Client{Timeout: c.timeout}
}

func loadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(ctx context.Context, filesystem fs.FS, name string) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(filesystem, name)
}

func loadHTTP(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) ([]byte, error) {
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("loader: unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
