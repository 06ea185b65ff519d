package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/medadventure/pkg/anim"
	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
	"github.com/vanderheijden86/medadventure/pkg/session"
	"github.com/vanderheijden86/medadventure/pkg/watcher"
)

// Default terminal size until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

const (
	appTitle     = "Maryland Medicare Adventure"
	appTagline   = "Choose your path and learn the rules for 2026!"
	appCopyright = "© 2026 Maryland Medicare Adventure. For educational purposes only."
)

// transitionMsg fires when a navigation's fade-out delay has elapsed.
type transitionMsg struct {
	pending session.Pending
}

// scrollSettleMsg fires once the expanded takeaways have laid out.
type scrollSettleMsg struct {
	seq int
}

// scrollFrameMsg advances the takeaways scroll animation.
type scrollFrameMsg struct {
	seq int
	at  time.Time
}

// CatalogChangedMsg carries a catalog reloaded after its file changed on
// disk. Err is set when the new file could not be loaded; the session keeps
// the catalog it has.
type CatalogChangedMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

// ReloadFunc loads a fresh catalog for live reload.
type ReloadFunc func() (*catalog.Catalog, error)

// WatchCatalogCmd waits for the catalog file to change, reloads it and
// reports the result as a CatalogChangedMsg. It returns no message once the
// watcher is stopped.
func WatchCatalogCmd(w *watcher.Watcher, reload ReloadFunc) tea.Cmd {
	return func() tea.Msg {
		done := w.Done()
		select {
		case <-w.Changed():
		case <-done:
			return nil
		}
		cat, err := reload()
		return CatalogChangedMsg{Catalog: cat, Err: err}
	}
}

// Options configure a Model.
type Options struct {
	Timings session.Timings
	Theme   *Theme
	Watcher *watcher.Watcher
	Reload  ReloadFunc

	// Now and Copy are replaced in tests.
	Now  func() time.Time
	Copy func(string) error
}

// Model is the main Bubble Tea model for the adventure.
type Model struct {
	session *session.Controller
	timings session.Timings

	watcher *watcher.Watcher
	reload  ReloadFunc

	// UI Components
	list     list.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	renderer *MarkdownRenderer
	theme    Theme

	width  int
	height int

	// Detail page
	choiceCursor int

	// Outcome page. scrollSeq identifies the current accordion opening;
	// settle and frame messages carrying an older value are dropped.
	takeawaysOpen bool
	takeawaysLine int
	scroll        *anim.Scroll
	scrollSeq     int

	statusMsg     string
	statusIsError bool

	now  func() time.Time
	copy func(string) error
}

// NewModel builds the UI over a session controller.
func NewModel(ctrl *session.Controller, opts Options) Model {
	theme := TestTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	if opts.Timings == (session.Timings{}) {
		opts.Timings = session.DefaultTimings()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}

	delegate := ScenarioDelegate{Theme: theme, Presentation: ctrl.State().PresentationMode}
	l := list.New(nil, delegate, defaultWidth, defaultHeight)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	h := help.New()
	h.Styles.ShortKey = theme.PrimaryBold
	h.Styles.ShortDesc = theme.MutedText
	h.Styles.FullKey = theme.PrimaryBold
	h.Styles.FullDesc = theme.MutedText

	m := Model{
		session:  ctrl,
		timings:  opts.Timings,
		watcher:  opts.Watcher,
		reload:   opts.Reload,
		list:     l,
		viewport: viewport.New(defaultWidth, defaultHeight),
		help:     h,
		keys:     defaultKeyMap(),
		renderer: NewMarkdownRendererWithTheme(ContentWidth, theme),
		theme:    theme,
		width:    defaultWidth,
		height:   defaultHeight,
		now:      opts.Now,
		copy:     opts.Copy,
	}
	m.setItems()
	m.resize()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil && m.reload != nil {
		return WatchCatalogCmd(m.watcher, m.reload)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case transitionMsg:
		return m, m.applyTransition(msg.pending)

	case scrollSettleMsg:
		if msg.seq != m.scrollSeq || !m.takeawaysOpen {
			return m, nil
		}
		s := anim.NewScroll(m.viewport.YOffset, m.takeawaysLine, m.timings.ScrollOffset, m.now(), m.timings.ScrollDuration)
		m.scroll = &s
		return m, m.scrollFrameCmd()

	case scrollFrameMsg:
		if msg.seq != m.scrollSeq || m.scroll == nil {
			return m, nil
		}
		m.viewport.SetYOffset(m.scroll.At(msg.at))
		if m.scroll.Done(msg.at) {
			m.scroll = nil
			return m, nil
		}
		return m, m.scrollFrameCmd()

	case CatalogChangedMsg:
		var cmd tea.Cmd
		if m.watcher != nil && m.reload != nil {
			cmd = WatchCatalogCmd(m.watcher, m.reload)
		}
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Reload failed: %v", msg.Err), true)
			return m, cmd
		}
		m.session.ReplaceCatalog(msg.Catalog)
		m.resetTakeaways()
		m.choiceCursor = 0
		m.setItems()
		m.refresh()
		m.viewport.GotoTop()
		m.setStatus(fmt.Sprintf("Reloaded %d scenarios", msg.Catalog.Len()), false)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Presentation):
		on := m.session.TogglePresentationMode()
		debug.Log("ui: presentation mode %v", on)
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	switch m.session.Page() {
	case session.PageList:
		cmd = m.handleListKeys(msg)
	case session.PageDetail:
		cmd = m.handleDetailKeys(msg)
	case session.PageOutcome:
		cmd = m.handleOutcomeKeys(msg)
	}
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Open) {
		item, ok := m.list.SelectedItem().(ScenarioItem)
		if !ok {
			return nil
		}
		return m.begin(session.Focus(item.Scenario.ID))
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) tea.Cmd {
	s, ok := m.session.ActiveScenario()
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.begin(session.Unfocus())
	case !ok:
		return nil
	case key.Matches(msg, m.keys.Up):
		if m.choiceCursor > 0 {
			m.choiceCursor--
			m.refresh()
		}
		return nil
	case key.Matches(msg, m.keys.Down):
		if m.choiceCursor < len(s.Choices)-1 {
			m.choiceCursor++
			m.refresh()
		}
		return nil
	case key.Matches(msg, m.keys.Open):
		if m.choiceCursor < len(s.Choices) {
			return m.begin(session.Select(s.Choices[m.choiceCursor]))
		}
		return nil
	case key.Matches(msg, m.keys.Choose):
		idx := int(msg.String()[0] - '1')
		if idx < len(s.Choices) {
			m.choiceCursor = idx
			return m.begin(session.Select(s.Choices[idx]))
		}
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *Model) handleOutcomeKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Takeaways):
		return m.toggleTakeaways()
	case key.Matches(msg, m.keys.Back):
		return m.begin(session.Back())
	case key.Matches(msg, m.keys.Next):
		if _, ok := m.session.NextScenario(); !ok {
			return nil
		}
		return m.begin(session.Next())
	case key.Matches(msg, m.keys.Copy):
		m.copyOutcome()
		return nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// begin starts a navigation and schedules it to apply after the fade-out.
func (m *Model) begin(op session.Op) tea.Cmd {
	p, err := m.session.Begin(op)
	if err != nil {
		debug.Log("ui: %v rejected: %v", op.Kind, err)
		m.setStatus(err.Error(), true)
		return nil
	}
	m.statusMsg = ""
	return tea.Tick(m.timings.TransitionDelay, func(time.Time) tea.Msg {
		return transitionMsg{pending: p}
	})
}

func (m *Model) applyTransition(p session.Pending) tea.Cmd {
	eff, err := m.session.Apply(p)
	if errors.Is(err, session.ErrStale) {
		return nil
	}
	debug.LogIf(err != nil, "ui: transition %v skipped: %v", p.Op.Kind, err)

	st := m.session.State()
	if p.Op.Kind == session.OpSelect || st.View != session.ViewOutcome {
		m.resetTakeaways()
	}
	switch p.Op.Kind {
	case session.OpFocus, session.OpNext:
		m.choiceCursor = 0
		if i := m.session.Catalog().IndexOf(st.ActiveScenarioID); i >= 0 {
			m.list.Select(i)
		}
	}

	m.refresh()
	if eff.ScrollTop {
		m.viewport.GotoTop()
	}
	return nil
}

func (m *Model) toggleTakeaways() tea.Cmd {
	m.takeawaysOpen = !m.takeawaysOpen
	m.scrollSeq++
	m.scroll = nil
	m.refresh()
	if !m.takeawaysOpen {
		return nil
	}
	seq := m.scrollSeq
	return tea.Tick(m.timings.ScrollSettle, func(time.Time) tea.Msg {
		return scrollSettleMsg{seq: seq}
	})
}

func (m *Model) resetTakeaways() {
	m.takeawaysOpen = false
	m.scrollSeq++
	m.scroll = nil
}

func (m Model) scrollFrameCmd() tea.Cmd {
	seq := m.scrollSeq
	return tea.Tick(anim.FrameInterval, func(t time.Time) tea.Msg {
		return scrollFrameMsg{seq: seq, at: t}
	})
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

func (m *Model) setItems() {
	scenarios := m.session.Catalog().Scenarios()
	items := make([]list.Item, 0, len(scenarios))
	for _, it := range scenarioItems(scenarios) {
		items = append(items, it)
	}
	m.list.SetItems(items)
}

func (m Model) contentWidth() int {
	limit := ContentWidth
	margin := SpaceLG
	if m.session.State().PresentationMode {
		limit = PresentationContentWidth
		margin = SpaceSM
	}
	w := m.width - 2*margin
	if w > limit {
		w = limit
	}
	if w < 20 {
		w = 20
	}
	return w
}

// resize recomputes component sizes from the terminal size and mode.
func (m *Model) resize() {
	presentation := m.session.State().PresentationMode
	cw := m.contentWidth()
	m.help.Width = m.width
	bodyH := m.height - lipgloss.Height(m.renderHeader()) - lipgloss.Height(m.renderFooter())
	if bodyH < 3 {
		bodyH = 3
	}

	m.list.SetDelegate(ScenarioDelegate{Theme: m.theme, Presentation: presentation})
	m.list.SetSize(cw, bodyH)
	m.viewport.Width = cw
	m.viewport.Height = bodyH
	m.renderer.SetWidthWithTheme(cw-SpaceLG, m.theme)
	m.refresh()
}

// refresh rebuilds the viewport content for the current page.
func (m *Model) refresh() {
	defer metrics.Timer(metrics.Render)()
	switch m.session.Page() {
	case session.PageDetail:
		m.viewport.SetContent(m.renderDetail())
	case session.PageOutcome:
		content, line := m.renderOutcome()
		m.takeawaysLine = line
		m.viewport.SetContent(content)
	default:
		m.viewport.SetContent("")
	}
}

func (m Model) View() string {
	st := m.session.State()

	var body string
	if st.Page() == session.PageList {
		body = m.list.View()
	} else {
		body = m.viewport.View()
	}
	if st.Busy() {
		body = m.theme.Renderer.NewStyle().Faint(true).Render(body)
	}
	body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)

	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)

	return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter()))
}

func (m Model) renderHeader() string {
	t := m.theme
	presentation := m.session.State().PresentationMode

	title := t.Header.Render(appTitle)
	if presentation {
		title = t.Header.Render(strings.ToUpper(appTitle))
	}
	lines := []string{
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, title),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, t.Tagline.Render(appTagline)),
	}
	if presentation {
		badge := t.AccentBold.Render("● PRESENTATION")
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, badge))
	}
	lines = append(lines, RenderDivider(m.width))
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	st := m.session.State()
	_, hasNext := m.session.NextScenario()

	var lines []string
	if m.statusMsg != "" {
		style := m.theme.SecondaryText
		if m.statusIsError {
			style = m.theme.Renderer.NewStyle().Foreground(ColorDanger)
		}
		lines = append(lines, style.Render(m.statusMsg))
	}
	lines = append(lines, m.help.View(m.keys.forPage(st.Page(), hasNext)))
	if !st.PresentationMode {
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.theme.MutedText.Render(appCopyright)))
	}
	return strings.Join(lines, "\n")
}

// copyOutcome puts the current outcome on the clipboard as markdown.
func (m *Model) copyOutcome() {
	st := m.session.State()
	if st.SelectedChoice == nil {
		return
	}
	if err := m.copy(outcomeMarkdown(*st.SelectedChoice)); err != nil {
		m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		return
	}
	m.setStatus(fmt.Sprintf("Copied %q to clipboard", st.SelectedChoice.Title), false)
}

// Session exposes the controller for callers embedding the model.
func (m Model) Session() *session.Controller {
	return m.session
}

// TakeawaysOpen reports whether the takeaways accordion is expanded.
func (m Model) TakeawaysOpen() bool {
	return m.takeawaysOpen
}

// ScrollOffset returns the viewport's vertical offset.
func (m Model) ScrollOffset() int {
	return m.viewport.YOffset
}

// Stop releases the file watcher.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}
