package platform

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownField is returned by CopyField for a name without a value.
var ErrUnknownField = errors.New("platform: unknown field")

// Services bundles the host capabilities components may use. It is passed
// explicitly instead of living in package state.
type Services struct {
	Clipboard    Clipboard
	OutsideClick *OutsideClick
}

// DefaultServices uses the system clipboard and a fresh outside-click
// detector.
func DefaultServices() Services {
	return Services{
		Clipboard:    SystemClipboard{},
		OutsideClick: NewOutsideClick(),
	}
}

// ValueSource exposes a snapshot of form values. *binder.Binder satisfies it.
type ValueSource interface {
	Values() map[string]any
}

// CopyField copies the current value of name to the clipboard and returns the
// copied text.
func CopyField(services Services, source ValueSource, name string) (string, error) {
	if services.Clipboard == nil {
		return "", ErrClipboardUnavailable
	}
	value, ok := source.Values()[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	text, err := FormatValue(value)
	if err != nil {
		return "", fmt.Errorf("platform: format %q: %w", name, err)
	}
	if err := services.Clipboard.WriteText(text); err != nil {
		return "", err
	}
	return text, nil
}

// FormatValue renders a form value as clipboard text. Scalars use their
// natural form; composite values are encoded as JSON.
func FormatValue(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case fmt.Stringer:
		return typed.String(), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(typed), nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
