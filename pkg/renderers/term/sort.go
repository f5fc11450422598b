package term

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/goliatone/go-formkit/pkg/platform"
	"github.com/goliatone/go-formkit/pkg/popover"
	"github.com/goliatone/go-formkit/pkg/reorder"
)

// ErrAborted is returned by RunSort when the user quits without confirming.
var ErrAborted = errors.New("term: aborted")

// SortOption configures a SortModel.
type SortOption func(*SortModel)

// WithTitle sets the line drawn above the list.
func WithTitle(title string) SortOption {
	return func(m *SortModel) {
		m.title = title
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keys KeyMap) SortOption {
	return func(m *SortModel) {
		m.keys = keys
	}
}

// WithSortStyles replaces the default styles.
func WithSortStyles(styles Styles) SortOption {
	return func(m *SortModel) {
		m.styles = styles
	}
}

// WithHiddenOrder hides the order badges.
func WithHiddenOrder() SortOption {
	return func(m *SortModel) {
		m.hideOrder = true
	}
}

// WithServices sets the clipboard used by the copy key and the outside
// click detector that closes the help popover. DefaultServices is used
// otherwise.
func WithServices(services platform.Services) SortOption {
	return func(m *SortModel) {
		m.services = services
	}
}

// WithClock overrides the clock behind the copy confirmation.
func WithClock(now func() time.Time) SortOption {
	return func(m *SortModel) {
		m.now = now
	}
}

type copyExpiredMsg struct{}

// SortModel is a bubbletea model over a reorder engine. Mouse press, motion
// and release become drag start, hover and drop gestures; each list row is
// one terminal cell high and the pointer is taken at the cell's middle, so
// entering a neighbouring row is enough to move the dragged item. The
// keyboard moves a cursor, toggles items and moves the item under the
// cursor with the same gestures.
type SortModel struct {
	engine    *reorder.Engine
	keys      KeyMap
	styles    Styles
	title     string
	hideOrder bool
	services  platform.Services
	now       func() time.Time
	help      *popover.Popover
	copier    *platform.Copier

	width   int
	height  int
	cursor  int
	pointer float64
	done    bool
	aborted bool
	err     error
}

// NewSortModel wraps engine.
func NewSortModel(engine *reorder.Engine, opts ...SortOption) SortModel {
	m := SortModel{
		engine: engine,
		keys:   DefaultKeyMap,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	if m.styles.renderer == nil {
		m.styles = DefaultStyles(nil)
	}
	if m.services.Clipboard == nil && m.services.OutsideClick == nil {
		m.services = platform.DefaultServices()
	}
	m.copier = platform.NewCopier(m.services.Clipboard, m.now)

	help := popover.New(popover.WithPlacement(popover.Bottom))
	popover.WithRequestClose(func() { help.SetShowing(false) })(help)
	help.Attach(m.services.OutsideClick)
	m.help = help
	return m
}

// Init implements tea.Model.
func (m SortModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SortModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layoutHelp()
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case copyExpiredMsg:
		// redraw drops the confirmation
	}
	return m, nil
}

// listTop is the screen row of the first item.
func (m SortModel) listTop() int {
	top := 0
	if m.helpAbove() {
		top += len(m.keys.FullHelp())
	}
	if m.title != "" {
		top++
	}
	return top
}

func (m SortModel) helpAbove() bool {
	return m.help.Showing() && m.help.Placement() == popover.Top
}

func (m *SortModel) handleMouse(msg tea.MouseMsg) {
	row := msg.Y - m.listTop()
	n := len(m.engine.Items())
	state, dragging := m.engine.State()

	if msg.Action == tea.MouseActionPress && m.services.OutsideClick != nil {
		m.services.OutsideClick.Click(float64(msg.X), float64(msg.Y))
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || row < 0 || row >= n || state == reorder.Dragging {
			return
		}
		m.cursor = row
		m.pointer = float64(msg.Y) + 0.5
		m.dispatch(reorder.Gesture{Kind: reorder.GestureStart, Index: row})

	case tea.MouseActionMotion:
		if state != reorder.Dragging {
			return
		}
		m.pointer = float64(msg.Y) + 0.5
		if row < 0 || row >= n {
			return
		}
		top := float64(msg.Y)
		m.dispatch(reorder.Gesture{Kind: reorder.GestureHover, Hover: reorder.HoverEvent{
			DragIndex:  dragging,
			HoverIndex: row,
			PointerY:   m.pointer,
			Bounds:     reorder.Rect{Top: top, Bottom: top + 1},
		}})
		if _, idx := m.engine.State(); idx >= 0 {
			m.cursor = idx
		}

	case tea.MouseActionRelease:
		if state == reorder.Dragging {
			m.dispatch(reorder.Gesture{Kind: reorder.GestureDrop})
		}
	}
}

func (m SortModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.engine.Items())
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Done):
		if state, _ := m.engine.State(); state == reorder.Dragging {
			m.dispatch(reorder.Gesture{Kind: reorder.GestureDrop})
		}
		m.done = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if state, _ := m.engine.State(); state == reorder.Dragging {
			m.dispatch(reorder.Gesture{Kind: reorder.GestureCancel})
		} else {
			m.help.SetShowing(false)
		}
	case key.Matches(msg, m.keys.Help):
		m.help.SetShowing(!m.help.Showing())
		m.layoutHelp()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyOrder()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if n > 0 {
			m.dispatch(reorder.Gesture{Kind: reorder.GestureToggle, Index: m.cursor})
		}
	case key.Matches(msg, m.keys.MoveUp):
		m.step(-1)
	case key.Matches(msg, m.keys.MoveDown):
		m.step(1)
	}
	return m, nil
}

// step moves the item under the cursor by one position as a complete
// start, hover, drop gesture.
func (m *SortModel) step(delta int) {
	target := m.cursor + delta
	if target < 0 || target >= len(m.engine.Items()) {
		return
	}
	if state, _ := m.engine.State(); state == reorder.Dragging {
		return
	}
	top := float64(m.listTop() + target)
	gestures := []reorder.Gesture{
		{Kind: reorder.GestureStart, Index: m.cursor},
		{Kind: reorder.GestureHover, Hover: reorder.HoverEvent{
			DragIndex:  m.cursor,
			HoverIndex: target,
			PointerY:   top + 0.5,
			Bounds:     reorder.Rect{Top: top, Bottom: top + 1},
		}},
		{Kind: reorder.GestureDrop},
	}
	for _, g := range gestures {
		if !m.dispatch(g) {
			return
		}
	}
	m.cursor = target
}

func (m *SortModel) dispatch(g reorder.Gesture) bool {
	if err := m.engine.Dispatch(g); err != nil {
		m.err = fmt.Errorf("term: %s: %w", g.Kind, err)
		return false
	}
	m.err = nil
	return true
}

// copyOrder puts the item values on the clipboard and schedules a redraw
// for when the confirmation expires.
func (m *SortModel) copyOrder() tea.Cmd {
	text, err := platform.FormatValue(m.engine.Items().Values())
	if err == nil {
		err = m.copier.Copy(text)
	}
	if err != nil {
		m.err = fmt.Errorf("term: copy: %w", err)
		return nil
	}
	m.err = nil
	return tea.Tick(platform.CopiedFeedback, func(time.Time) tea.Msg { return copyExpiredMsg{} })
}

// layoutHelp places the help box below the list. When the terminal is too
// short it flips above the list, where it takes the first rows of the
// screen.
func (m *SortModel) layoutHelp() {
	if m.width == 0 || m.height == 0 {
		return
	}
	lines := len(m.keys.FullHelp())
	top := m.listTop() + len(m.engine.Items())
	if m.help.Placement() == popover.Top {
		top = 0
	}
	box := platform.Rect{Left: 0, Top: float64(top), Right: float64(m.width - 1), Bottom: float64(top + lines)}
	if m.help.Reposition(box, platform.Size{Width: float64(m.width), Height: float64(m.height)}) {
		m.layoutHelp()
	}
}

// View implements tea.Model.
func (m SortModel) View() string {
	st := m.styles
	items := m.engine.Items()
	state, dragging := m.engine.State()

	var b strings.Builder
	if m.helpAbove() {
		b.WriteString(fullHelp(st, m.keys))
	}
	if m.title != "" {
		b.WriteString(st.Title.Render(m.title))
		b.WriteString("\n")
	}
	for idx, item := range items {
		line := itemLine(st, idx, len(items), item.Text, item.Value, item.Active, !m.hideOrder)
		switch {
		case state == reorder.Dragging && idx == dragging:
			line = st.Dragging.Render(line)
		case idx == m.cursor:
			line = st.Cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if state == reorder.Dragging {
		if item, _, ok := m.engine.Preview(m.pointer, float64(m.listTop())); ok {
			b.WriteString(st.Muted.Render("moving " + label(item.Text, item.Value)))
			b.WriteString("\n")
		}
	}
	if m.help.Showing() && !m.helpAbove() {
		b.WriteString(fullHelp(st, m.keys))
	}
	if m.err != nil {
		b.WriteString(st.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.copier.Copied() {
		b.WriteString(st.Checked.Render(m.copier.Hint()))
		b.WriteString("\n")
	}
	b.WriteString(st.Muted.Render(helpLine(m.keys.ShortHelp())))
	return b.String()
}

func helpLine(bindings []key.Binding) string {
	var parts []string
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

func fullHelp(st Styles, keys KeyMap) string {
	var b strings.Builder
	for _, binding := range keys.FullHelp() {
		h := binding.Help()
		b.WriteString(st.Muted.Render(fmt.Sprintf("%-8s %s", h.Key, h.Desc)))
		b.WriteString("\n")
	}
	return b.String()
}

// Cursor returns the highlighted row.
func (m SortModel) Cursor() int { return m.cursor }

// Done reports whether the user confirmed the order.
func (m SortModel) Done() bool { return m.done }

// Aborted reports whether the user quit.
func (m SortModel) Aborted() bool { return m.aborted }

// Err returns the last gesture error, shown until the next gesture succeeds.
func (m SortModel) Err() error { return m.err }

// HelpShowing reports whether the help popover is open.
func (m SortModel) HelpShowing() bool { return m.help.Showing() }

// HelpPlacement returns the resolved side of the help popover.
func (m SortModel) HelpPlacement() popover.Placement { return m.help.Placement() }

// Close detaches the help popover from the outside click detector.
func (m SortModel) Close() {
	m.help.Detach()
}

// RunSort runs a full-screen SortModel over engine until the user confirms
// or quits. It returns the final order.
func RunSort(ctx context.Context, engine *reorder.Engine, opts []SortOption, programOpts ...tea.ProgramOption) (reorder.Items, error) {
	model := NewSortModel(engine, opts...)
	defer model.Close()
	programOpts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithMouseCellMotion()}, programOpts...)

	final, err := tea.NewProgram(model, programOpts...).Run()
	if err != nil {
		return nil, fmt.Errorf("term: run sort: %w", err)
	}
	if sorted, ok := final.(SortModel); ok && sorted.Aborted() {
		return nil, ErrAborted
	}
	return engine.Items(), nil
}
