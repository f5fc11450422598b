// Package formkit is the entry point for loading form documents, validating
// values against them and driving them from a terminal. The pieces live in
// pkg/: schema and validation hold the data model, binder keeps a widget tree
// in sync with a schema, reorder implements sortable lists, and the
// renderers/tui and renderers/term packages are the terminal front-ends.
package formkit
