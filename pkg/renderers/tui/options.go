package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/binder"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch format := OutputFormat(raw); format {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return format, true
	case "":
		return OutputFormatJSON, true
	}
	return "", false
}

// Theme captures optional formatting hints applied to printed messages.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver used by the session.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(s *Session) {
		s.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithBinderOptions configures the binder the session drives. The session
// installs its own submit and error callbacks after these.
func WithBinderOptions(opts ...binder.Option) Option {
	return func(s *Session) {
		s.binderOpts = append(s.binderOpts, opts...)
	}
}

// WithMaxRounds bounds how many times invalid fields are prompted again.
// Zero, the default, keeps prompting until the form is valid or aborted.
func WithMaxRounds(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxRounds = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
