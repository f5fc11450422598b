// Package platform holds host integration capabilities: clipboard access and
// outside-click detection. Components receive them through Services.
package platform
