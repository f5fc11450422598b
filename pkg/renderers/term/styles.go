package term

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-formkit/pkg/reorder"
)

// Styles holds the lipgloss styles used to draw forms and lists.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Checked  lipgloss.Style
	Cursor   lipgloss.Style
	Dragging lipgloss.Style
	Badge    lipgloss.Style

	renderer *lipgloss.Renderer
}

// DefaultStyles builds the stock styles on r, or on the default renderer
// when r is nil.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Styles{
		Title:    r.NewStyle().Bold(true),
		Label:    r.NewStyle().Bold(true),
		Value:    r.NewStyle(),
		Muted:    r.NewStyle().Faint(true),
		Error:    r.NewStyle().Foreground(lipgloss.Color("#e5484d")),
		Checked:  r.NewStyle().Foreground(lipgloss.Color("#30a46c")),
		Cursor:   r.NewStyle().Reverse(true),
		Dragging: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#0090ff")),
		Badge:    r.NewStyle().Bold(true),
		renderer: r,
	}
}

// BadgeColor renders BadgeOpacity as a grey level, since terminals have no
// alpha: the first badge is white and the last fades towards the background.
func BadgeColor(index, n int) lipgloss.Color {
	level := int(255 * reorder.BadgeOpacity(index, n))
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", level, level, level))
}

func (s Styles) badge(index, n int) string {
	return s.Badge.Foreground(BadgeColor(index, n)).Render(fmt.Sprintf("%d", index+1))
}
