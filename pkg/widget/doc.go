// Package widget defines the contract between host view trees and the form
// binder. Widgets opt in to binding by implementing Bindable (and Validated
// to declare validators); everything else is passed through untouched while
// its children are still visited, so fields nested in layout wrappers are
// discovered. No reflection is involved.
package widget
