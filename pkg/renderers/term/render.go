package term

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/widget"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// RenderOption configures RenderTree.
type RenderOption func(*renderConfig)

type renderConfig struct {
	styles Styles
	indent string
}

// WithStyles replaces the default styles.
func WithStyles(styles Styles) RenderOption {
	return func(c *renderConfig) {
		c.styles = styles
	}
}

// WithIndent sets the indentation added for each nested group.
func WithIndent(indent string) RenderOption {
	return func(c *renderConfig) {
		c.indent = indent
	}
}

// RenderTree draws a bound widget tree as text: one line per field, errors
// in red under the field, checkbox state and sortable items with fading
// order badges.
func RenderTree(tree widget.Widget, opts ...RenderOption) string {
	cfg := renderConfig{indent: "  "}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.styles.renderer == nil {
		cfg.styles = DefaultStyles(nil)
	}

	var lines []string
	renderNode(&lines, tree, "", cfg)
	return strings.Join(lines, "\n")
}

func renderNode(lines *[]string, node widget.Widget, prefix string, cfg renderConfig) {
	st := cfg.styles
	switch w := node.(type) {
	case nil:
		return
	case widgets.Group:
		next := prefix
		if w.Title != "" {
			*lines = append(*lines, prefix+st.Title.Render(w.Title))
			next += cfg.indent
		}
		for _, child := range w.Items {
			renderNode(lines, child, next, cfg)
		}
	case widgets.ValidatedField:
		// the wrapped field carries the same error in its props
		renderNode(lines, w.Inner(), prefix, cfg)
	case widgets.TextInput:
		value := w.Text()
		switch {
		case w.Secret && value != "":
			value = strings.Repeat("•", len([]rune(value)))
		case value == "" && w.Placeholder != "":
			value = st.Muted.Render(w.Placeholder)
		default:
			value = st.Value.Render(value)
		}
		*lines = append(*lines, prefix+st.Label.Render(label(w.Label, w.Name)+":")+" "+value)
		renderError(lines, w.Props(), prefix, cfg)
	case widgets.Checkbox:
		box := "[ ]"
		if w.Checked() {
			box = st.Checked.Render("[x]")
		}
		*lines = append(*lines, prefix+box+" "+label(w.Label, w.Name))
		renderError(lines, w.Props(), prefix, cfg)
	case widgets.Select:
		value := st.Muted.Render("(none)")
		if choice, ok := w.Selected(); ok {
			value = st.Value.Render(choice.Display())
		}
		*lines = append(*lines, prefix+st.Label.Render(label(w.Label, w.Name)+":")+" "+value)
		renderError(lines, w.Props(), prefix, cfg)
	case widgets.SortableList:
		*lines = append(*lines, prefix+st.Label.Render(label(w.Label, w.Name)+":"))
		items := w.Items()
		for idx, item := range items {
			*lines = append(*lines, prefix+cfg.indent+itemLine(st, idx, len(items), item.Text, item.Value, item.Active, !w.HideOrderNumbers))
		}
		renderError(lines, w.Props(), prefix, cfg)
	default:
		if field, ok := node.(widget.Field); ok {
			*lines = append(*lines, prefix+st.Label.Render(field.FieldName()+":"))
		}
		for _, child := range node.Children() {
			renderNode(lines, child, prefix+cfg.indent, cfg)
		}
	}
}

func renderError(lines *[]string, props widget.Props, prefix string, cfg renderConfig) {
	if props.Error == "" {
		return
	}
	*lines = append(*lines, prefix+cfg.indent+cfg.styles.Error.Render(props.Error))
}

func itemLine(st Styles, idx, n int, text, value string, active, numbered bool) string {
	mark := "○"
	if active {
		mark = st.Checked.Render("●")
	}
	line := mark + " " + label(text, value)
	if numbered {
		line = st.badge(idx, n) + " " + line
	}
	return line
}

func label(text, fallback string) string {
	if text != "" {
		return text
	}
	return fallback
}
