// Package term draws bound widget trees with lipgloss and lets users reorder
// sortable lists in a bubbletea program, with the mouse or the keyboard. The
// sort program carries a help popover and copies the current order to the
// clipboard.
package term
