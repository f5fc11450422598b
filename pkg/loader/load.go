package loader

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Load reads src and decodes it. Documents carrying an openapi key are read
// as OpenAPI (WithOperation picks the operation); anything else is read as a
// YAML form document. JSON is accepted for both.
func Load(ctx context.Context, src Source, opts ...Option) (Document, error) {
	cfg := newConfig(opts)

	data, err := cfg.read(ctx, src)
	if err != nil {
		return Document{}, fmt.Errorf("loader: read %s: %w", src, err)
	}

	if isOpenAPI(data) {
		cfg.logger.Debug("loader: decoding openapi document", zap.Stringer("source", src))
		return FromOpenAPI(ctx, data, cfg.operation, opts...)
	}
	cfg.logger.Debug("loader: decoding form document", zap.Stringer("source", src))
	return FromYAML(data, opts...)
}

// LoadFile loads a document from a local path or an http(s) URL.
func LoadFile(ctx context.Context, location string, opts ...Option) (Document, error) {
	src, err := ParseSource(location)
	if err != nil {
		return Document{}, err
	}
	return Load(ctx, src, opts...)
}
