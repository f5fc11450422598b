package loader

import (
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// Option configures loading.
type Option func(*config)

type config struct {
	rules     *validation.Registry
	operation string
	fs        fs.FS
	client    *http.Client
	timeout   time.Duration
	logger    *zap.Logger
	debounce  time.Duration
}

func newConfig(opts []Option) config {
	cfg := config{
		timeout:  10 * time.Second,
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.rules == nil {
		cfg.rules = validation.NewRegistry()
	}
	return cfg
}

// WithRules resolves named rules through reg instead of the default
// registry, so custom rules can be used in documents.
func WithRules(reg *validation.Registry) Option {
	return func(c *config) {
		c.rules = reg
	}
}

// WithOperation selects the OpenAPI operation whose request body becomes the
// form.
func WithOperation(id string) Option {
	return func(c *config) {
		c.operation = id
	}
}

// WithFS sets the filesystem used by SourceFromFS.
func WithFS(filesystem fs.FS) Option {
	return func(c *config) {
		c.fs = filesystem
	}
}

// WithHTTPClient sets the client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithTimeout bounds URL fetches. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWatchDebounce coalesces bursts of file events during Watch.
func WithWatchDebounce(interval time.Duration) Option {
	return func(c *config) {
		c.debounce = interval
	}
}
