package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrOperationNotFound is returned by Operation for an unknown operationId.
var ErrOperationNotFound = errors.New("openapi parser: operation not found")

// Options tunes document loading.
type Options struct {
	// ResolveReferences allows external $ref resolution and validates the
	// document after loading.
	ResolveReferences bool
	// AllowPartialDocuments accepts documents without paths.
	AllowPartialDocuments bool
}

// Operation is one request operation with its flattened request body.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Properties  []Property
}

// Parser extracts form-ready operations from OpenAPI 3 documents using
// kin-openapi.
type Parser struct {
	options Options
}

// New constructs a Parser with the given options.
func New(options Options) *Parser {
	return &Parser{options: options}
}

// Operations converts a raw document into a map keyed by operationId.
// Operations without an id are keyed as "method:path".
func (p *Parser) Operations(ctx context.Context, raw []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if !p.options.AllowPartialDocuments {
			return nil, errors.New("openapi parser: document does not contain any paths")
		}
	}

	if err := p.resolveReferences(ctx, spec); err != nil {
		return nil, err
	}

	operations := make(map[string]Operation)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			p.collectOperation(ctx, operations, "PUT", path, item.Put)
			p.collectOperation(ctx, operations, "POST", path, item.Post)
			p.collectOperation(ctx, operations, "PATCH", path, item.Patch)
			p.collectOperation(ctx, operations, "DELETE", path, item.Delete)
		}
	}

	if len(operations) == 0 && !p.options.AllowPartialDocuments {
		return nil, errors.New("openapi parser: no operations with a request body")
	}

	return operations, nil
}

// Operation returns a single operation by id.
func (p *Parser) Operation(ctx context.Context, raw []byte, id string) (Operation, error) {
	operations, err := p.Operations(ctx, raw)
	if err != nil {
		return Operation{}, err
	}
	op, ok := operations[id]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q (available: %s)", ErrOperationNotFound, id, strings.Join(sortedKeys(operations), ", "))
	}
	return op, nil
}

func (p *Parser) resolveReferences(ctx context.Context, spec *openapi3.T) error {
	if !p.options.ResolveReferences {
		return nil
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi parser: validate: %w", err)
	}
	return nil
}

func (p *Parser) collectOperation(ctx context.Context, target map[string]Operation, method, path string, operation *openapi3.Operation) {
	if ctx.Err() != nil || operation == nil {
		return
	}
	body := requestSchema(operation.RequestBody)
	if body == nil {
		return
	}

	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}
	target[opID] = Operation{
		ID:          opID,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		Properties:  flatten("", body, nil),
	}
}

func requestSchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, name := range sortedKeys(content) {
		if mt := content[name]; mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
