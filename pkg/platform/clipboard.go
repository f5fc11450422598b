package platform

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no system clipboard utility is
// present.
var ErrClipboardUnavailable = errors.New("platform: clipboard unavailable")

// Clipboard writes and reads plain text.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

// WriteText copies text to the system clipboard.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("platform: write clipboard: %w", err)
	}
	return nil
}

// ReadText returns the system clipboard contents.
func (SystemClipboard) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrClipboardUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("platform: read clipboard: %w", err)
	}
	return text, nil
}

// MemoryClipboard keeps text in memory.
type MemoryClipboard struct {
	mu     sync.Mutex
	text   string
	writes int
}

// WriteText stores text.
func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.writes++
	return nil
}

// ReadText returns the stored text.
func (m *MemoryClipboard) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

// Writes returns how many times text was written.
func (m *MemoryClipboard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// CopiedFeedback is how long a Copier reports a copy as recent.
const CopiedFeedback = 1800 * time.Millisecond

// Copier copies values and remembers when it last succeeded, so a front-end
// can show a transient confirmation.
type Copier struct {
	target Clipboard
	now    func() time.Time

	mu       sync.Mutex
	copiedAt time.Time
}

// NewCopier wraps target. now may be nil to use the wall clock.
func NewCopier(target Clipboard, now func() time.Time) *Copier {
	if now == nil {
		now = time.Now
	}
	return &Copier{target: target, now: now}
}

// Copy writes text to the clipboard.
func (c *Copier) Copy(text string) error {
	if c.target == nil {
		return ErrClipboardUnavailable
	}
	if err := c.target.WriteText(text); err != nil {
		return err
	}
	c.mu.Lock()
	c.copiedAt = c.now()
	c.mu.Unlock()
	return nil
}

// Copied reports whether the last copy happened within CopiedFeedback.
func (c *Copier) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.copiedAt.IsZero() {
		return false
	}
	return c.now().Sub(c.copiedAt) < CopiedFeedback
}

// Hint returns the tooltip text for the current copy state.
func (c *Copier) Hint() string {
	if c.Copied() {
		return "Copied!"
	}
	return "Click to copy"
}
