// Package loader builds forms from schema documents: YAML form files and
// OpenAPI request bodies, read from disk, an fs.FS or HTTP. Watch reloads a
// file on change so a running binder can pick up the new schema.
package loader
