package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/session"
	"github.com/vanderheijden86/medadventure/pkg/watcher"
)

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func fastTimings() session.Timings {
	return session.Timings{
		TransitionDelay: time.Millisecond,
		ScrollSettle:    time.Millisecond,
		ScrollDuration:  time.Second,
		ScrollOffset:    1,
	}
}

func newTestModel(t *testing.T, width, height int) (Model, *string) {
	t.Helper()
	var copied string
	m := NewModel(session.New(catalog.Default()), Options{
		Timings: fastTimings(),
		Now:     func() time.Time { return testNow },
		Copy: func(s string) error {
			copied = s
			return nil
		},
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return next.(Model), &copied
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

// settle runs a pending transition command and feeds its message back.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg := cmd()
	if _, ok := msg.(transitionMsg); !ok {
		t.Fatalf("expected transitionMsg, got %T", msg)
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

// toOutcome navigates from the list to the outcome of the given choice
// index of the scenario at list position pos.
func toOutcome(t *testing.T, m Model, pos, choice int) Model {
	t.Helper()
	for i := 0; i < pos; i++ {
		m, _ = press(m, "down")
	}
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)
	m, cmd = press(m, string(rune('1'+choice)))
	return settle(t, m, cmd)
}

func TestInitialListView(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	out := m.View()

	for _, want := range []string{
		appTitle,
		appTagline,
		"Working Older Adult",
		"PLAY THIS SCENARIO",
		appCopyright,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("list view missing %q", want)
		}
	}
	if m.Session().Page() != session.PageList {
		t.Fatalf("expected list page, got %v", m.Session().Page())
	}
}

func TestEndToEndNavigation(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)

	m, _ = press(m, "down")
	m, cmd := press(m, "enter")
	if !m.Session().State().Transitioning {
		t.Fatal("focus should fade the list before applying")
	}
	if m.Session().Page() != session.PageList {
		t.Fatal("focus applied before its delay elapsed")
	}

	m = settle(t, m, cmd)
	st := m.Session().State()
	if st.Page() != session.PageDetail || st.ActiveScenarioID != 2 || st.Busy() {
		t.Fatalf("unexpected state after focus: %+v", st)
	}
	out := m.View()
	for _, want := range []string{"Fork in the Road", "WHAT SHOULD", "BACK TO SCENARIO LIST"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail view missing %q", want)
		}
	}

	m, cmd = press(m, "2")
	if !m.Session().State().Exiting {
		t.Fatal("selecting a choice should set Exiting")
	}
	m = settle(t, m, cmd)
	st = m.Session().State()
	if st.Page() != session.PageOutcome {
		t.Fatalf("expected outcome page, got %v", st.Page())
	}
	if st.SelectedChoice.Title != "Choose Original Medicare + Part D" {
		t.Fatalf("unexpected choice %q", st.SelectedChoice.Title)
	}
	if got := st.SelectedChoice.Outcome.Category(); got != model.CategoryNeutral {
		t.Fatalf("expected neutral outcome, got %v", got)
	}
	out = m.View()
	for _, want := range []string{"YOU SELECTED", "Freedom of choice", "KEY TAKEAWAYS & LESSONS", "NEXT SCENARIO"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("outcome view missing %q", want)
		}
	}

	m, cmd = press(m, "n")
	m = settle(t, m, cmd)
	st = m.Session().State()
	if st.Page() != session.PageDetail || st.ActiveScenarioID != 3 {
		t.Fatalf("expected detail of scenario 3, got %+v", st)
	}
	if !strings.Contains(m.View(), "Part D Panic") {
		t.Error("next scenario detail not rendered")
	}
}

func TestArrowKeysPickChoice(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	m, _ = press(m, "down")
	m, _ = press(m, "down")
	m, _ = press(m, "up")
	m, cmd = press(m, "enter")
	m = settle(t, m, cmd)

	s, _ := m.Session().Catalog().Find(1)
	if got := m.Session().State().SelectedChoice; got == nil || got.ID != s.Choices[1].ID {
		t.Fatalf("expected second choice selected, got %+v", got)
	}
}

func TestBackFromDetailReturnsToList(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	m, cmd = press(m, "esc")
	m = settle(t, m, cmd)
	if m.Session().Page() != session.PageList {
		t.Fatalf("expected list, got %v", m.Session().Page())
	}
}

func TestBackFromOutcomeReturnsToFullList(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m = toOutcome(t, m, 1, 0)

	m, cmd := press(m, "b")
	m = settle(t, m, cmd)
	st := m.Session().State()
	if st.Page() != session.PageList || st.ActiveScenarioID != 0 || st.SelectedChoice != nil {
		t.Fatalf("back should land on the full list, got %+v", st)
	}
}

func TestNextNotOfferedAfterLastScenario(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m = toOutcome(t, m, 3, 0)

	if strings.Contains(m.View(), "NEXT SCENARIO") {
		t.Fatal("next scenario offered after the final scenario")
	}
	m, cmd := press(m, "n")
	if cmd != nil {
		t.Fatal("n should do nothing on the last outcome")
	}
	if m.Session().State().Busy() {
		t.Fatal("no transition should have started")
	}
}

func TestPresentationModeHidesFooterOnly(t *testing.T) {
	m, _ := newTestModel(t, 120, 40)
	m = toOutcome(t, m, 0, 1)
	before := m.Session().State()

	m, _ = press(m, "p")
	after := m.Session().State()
	if !after.PresentationMode {
		t.Fatal("presentation mode not enabled")
	}
	if after.Page() != before.Page() || after.SelectedChoice.ID != before.SelectedChoice.ID {
		t.Fatal("presentation mode changed navigation")
	}
	out := m.View()
	if strings.Contains(out, appCopyright) {
		t.Error("footer should be hidden in presentation mode")
	}
	if !strings.Contains(out, "PRESENTATION") {
		t.Error("presentation indicator missing")
	}

	m, _ = press(m, "p")
	if !strings.Contains(m.View(), appCopyright) {
		t.Error("footer should return after leaving presentation mode")
	}
}

func TestSecondNavigationBeforeTimerFires(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)

	m, first := press(m, "enter")
	m, _ = press(m, "down")
	m, second := press(m, "enter")

	m = settle(t, m, first)
	st := m.Session().State()
	if st.ActiveScenarioID != 1 || !st.Transitioning {
		t.Fatalf("after first timer: %+v", st)
	}

	// The detail is showing now, but the second focus still applies.
	m = settle(t, m, second)
	st = m.Session().State()
	if st.ActiveScenarioID != 2 || st.Busy() {
		t.Fatalf("last write should win: %+v", st)
	}
}

func TestTwoChoicesDuringFadeLaterChoiceWins(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)

	m, first := press(m, "1")
	m, second := press(m, "2")
	if second == nil {
		t.Fatal("a second choice during the fade should be accepted")
	}

	m = settle(t, m, first)
	m = settle(t, m, second)

	s, _ := m.Session().Catalog().Find(1)
	st := m.Session().State()
	if st.Page() != session.PageOutcome || st.Busy() {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.SelectedChoice.Title != s.Choices[1].Title {
		t.Fatalf("expected %q, got %q", s.Choices[1].Title, st.SelectedChoice.Title)
	}
	if !strings.Contains(m.View(), s.Choices[1].Title) {
		t.Error("outcome of the later choice not rendered")
	}
}

func TestTakeawaysAccordionScrollsToHeader(t *testing.T) {
	m, _ := newTestModel(t, 100, 16)
	m = toOutcome(t, m, 1, 1)

	if m.TakeawaysOpen() {
		t.Fatal("accordion should start collapsed")
	}
	if m.ScrollOffset() != 0 {
		t.Fatal("outcome should open at the top")
	}

	m, cmd := press(m, "t")
	if !m.TakeawaysOpen() {
		t.Fatal("t should expand the takeaways")
	}
	if cmd == nil {
		t.Fatal("expected settle timer")
	}
	msg := cmd()
	if _, ok := msg.(scrollSettleMsg); !ok {
		t.Fatalf("expected scrollSettleMsg, got %T", msg)
	}
	next, frame := m.Update(msg)
	m = next.(Model)
	if frame == nil || m.scroll == nil {
		t.Fatal("settle should start the scroll animation")
	}

	maxOffset := max(0, m.viewport.TotalLineCount()-m.viewport.Height)
	want := min(m.takeawaysLine-1, maxOffset)
	if want <= 0 {
		t.Fatalf("test layout leaves nothing to scroll (line %d, max %d)", m.takeawaysLine, maxOffset)
	}

	// Half way along the ease-in-out curve.
	next, cmd = m.Update(scrollFrameMsg{seq: m.scrollSeq, at: testNow.Add(500 * time.Millisecond)})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("animation should continue mid-way")
	}
	if mid := m.ScrollOffset(); mid <= 0 || mid > want {
		t.Fatalf("mid-animation offset %d outside (0,%d]", mid, want)
	}

	next, cmd = m.Update(scrollFrameMsg{seq: m.scrollSeq, at: testNow.Add(time.Second)})
	m = next.(Model)
	if cmd != nil {
		t.Fatal("animation should stop when done")
	}
	if got := m.ScrollOffset(); got != want {
		t.Fatalf("final offset = %d, want %d", got, want)
	}
}

func TestCollapsingStopsStaleScrollFrames(t *testing.T) {
	m, _ := newTestModel(t, 100, 16)
	m = toOutcome(t, m, 1, 1)

	m, cmd := press(m, "t")
	next, _ := m.Update(cmd())
	m = next.(Model)
	staleSeq := m.scrollSeq

	m, _ = press(m, "t")
	if m.TakeawaysOpen() {
		t.Fatal("second t should collapse")
	}
	next, cmd = m.Update(scrollFrameMsg{seq: staleSeq, at: testNow.Add(time.Second)})
	m = next.(Model)
	if cmd != nil || m.ScrollOffset() != 0 {
		t.Fatal("stale frame should be ignored")
	}
}

func TestTakeawaysResetPerOutcome(t *testing.T) {
	m, _ := newTestModel(t, 100, 30)
	m = toOutcome(t, m, 0, 0)
	m, _ = press(m, "t")

	m, cmd := press(m, "n")
	m = settle(t, m, cmd)
	m, cmd = press(m, "1")
	m = settle(t, m, cmd)

	if m.TakeawaysOpen() {
		t.Fatal("accordion should be collapsed for a new outcome")
	}
}

func TestCopyOutcome(t *testing.T) {
	m, copied := newTestModel(t, 100, 30)
	m = toOutcome(t, m, 1, 1)

	m, _ = press(m, "y")
	if !strings.Contains(*copied, "# Choose Original Medicare + Part D") {
		t.Fatalf("clipboard missing title:\n%s", *copied)
	}
	if !strings.Contains(*copied, labelTakeaways) {
		t.Fatal("clipboard missing takeaways")
	}
	if strings.Contains(*copied, "<strong>") {
		t.Fatal("clipboard should hold markdown, not html")
	}
	if m.statusIsError {
		t.Fatalf("unexpected status error %q", m.statusMsg)
	}
}

func TestCopyErrorIsReported(t *testing.T) {
	m := NewModel(session.New(catalog.Default()), Options{
		Timings: fastTimings(),
		Copy:    func(string) error { return errors.New("no clipboard") },
	})
	m = toOutcome(t, m, 0, 0)
	m, _ = press(m, "y")
	if !m.statusIsError || !strings.Contains(m.statusMsg, "no clipboard") {
		t.Fatalf("expected clipboard error in status, got %q", m.statusMsg)
	}
}

func TestCatalogReload(t *testing.T) {
	m, _ := newTestModel(t, 100, 30)
	m = toOutcome(t, m, 1, 0)

	small := catalog.MustNew([]model.Scenario{{
		ID:    9,
		Title: "Only One",
		Choices: []model.Choice{{
			ID:      1,
			Title:   "Pick",
			Outcome: model.Outcome{Result: "Jackpot!"},
		}},
	}})

	next, _ := m.Update(CatalogChangedMsg{Err: errors.New("bad yaml")})
	m = next.(Model)
	if !m.statusIsError || m.Session().Page() != session.PageOutcome {
		t.Fatal("a failed reload must keep the session as is")
	}

	next, _ = m.Update(CatalogChangedMsg{Catalog: small})
	m = next.(Model)
	if m.Session().Page() != session.PageList {
		t.Fatalf("reload should reset to the list, got %v", m.Session().Page())
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("list has %d items, want 1", got)
	}
	if !strings.Contains(m.View(), "Only One") {
		t.Error("reloaded scenario not rendered")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, 80, 24)
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit")
	}
}

func TestWatchCatalogCmdReturnsWhenWatcherStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("scenarios: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := watcher.NewWatcher(path, watcher.WithForcePoll(true))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}

	cmd := WatchCatalogCmd(w, func() (*catalog.Catalog, error) {
		return catalog.Default(), nil
	})
	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()

	w.Stop()
	select {
	case msg := <-got:
		if msg != nil {
			t.Fatalf("expected no message after stop, got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watch command still blocked after the watcher stopped")
	}
}
