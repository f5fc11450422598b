// Package popover resolves popover placement against the viewport and turns
// outside clicks into close requests.
package popover
