// Package tui fills forms from a terminal. A Session binds a widget tree,
// prompts each field through a PromptDriver (survey by default) and prints
// the submitted values as JSON, form-encoded or plain text.
package tui
