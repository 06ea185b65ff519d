package session

import (
	"fmt"
	"sync"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// Controller is the single owner of a session's State. Every mutation goes
// through its methods.
type Controller struct {
	mu    sync.Mutex
	cat   *catalog.Catalog
	state State

	// Outstanding deferred transitions per flag, and the catalog
	// generation they were scheduled against.
	pendingExit       int
	pendingTransition int
	generation        uint64
}

// New starts a session over cat in the default state.
func New(cat *catalog.Catalog) *Controller {
	return &Controller{cat: cat}
}

// Catalog returns the catalog the session navigates.
func (c *Controller) Catalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cat
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	s := c.state
	if s.SelectedChoice != nil {
		ch := *s.SelectedChoice
		ch.Outcome.KeyTakeaways = append([]string(nil), ch.Outcome.KeyTakeaways...)
		s.SelectedChoice = &ch
	}
	return s
}

// Page returns the current navigable page.
func (c *Controller) Page() Page {
	return c.State().Page()
}

// ActiveScenario resolves the focused scenario. It reports false on the
// list page and for ids the catalog does not hold.
func (c *Controller) ActiveScenario() (*model.Scenario, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.ActiveScenarioID == 0 {
		return nil, false
	}
	return c.cat.Find(c.state.ActiveScenarioID)
}

// FocusScenario shows the detail of scenario id. It is valid only while
// browsing scenarios; an unknown id leaves the state untouched.
func (c *Controller) FocusScenario(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus(id)
}

func (c *Controller) focus(id int) error {
	if c.state.View != ViewScenarios {
		return fmt.Errorf("focus scenario %d: %w", id, ErrWrongView)
	}
	if c.cat.IndexOf(id) < 0 {
		return fmt.Errorf("focus scenario %d: %w", id, ErrScenarioNotFound)
	}
	c.state.ActiveScenarioID = id
	return nil
}

// UnfocusScenario returns to the full list. It is a no-op on the list.
func (c *Controller) UnfocusScenario() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unfocus()
}

func (c *Controller) unfocus() {
	c.state.ActiveScenarioID = 0
}

// SelectChoice moves to the outcome of choice. The caller supplies a
// choice of the focused scenario, which is recorded as its owner.
func (c *Controller) SelectChoice(choice model.Choice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectChoice(choice)
}

func (c *Controller) selectChoice(choice model.Choice) error {
	if c.state.View != ViewScenarios {
		return fmt.Errorf("select choice %d: %w", choice.ID, ErrWrongView)
	}
	c.state.View = ViewOutcome
	c.state.OwnerScenarioID = c.state.ActiveScenarioID
	c.setChoice(choice)
	return nil
}

func (c *Controller) setChoice(choice model.Choice) {
	ch := choice
	ch.Outcome.KeyTakeaways = append([]string(nil), choice.Outcome.KeyTakeaways...)
	c.state.SelectedChoice = &ch
}

// BackToScenarios returns to the full list, never to the previously
// focused detail.
func (c *Controller) BackToScenarios() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.back()
}

func (c *Controller) back() {
	c.state.View = ViewScenarios
	c.state.SelectedChoice = nil
	c.state.OwnerScenarioID = 0
	c.state.ActiveScenarioID = 0
}

// NextScenario returns the catalog successor of the scenario whose outcome
// is showing. It reports false outside the outcome view and after the last
// scenario; callers only offer "next" when it reports true.
func (c *Controller) NextScenario() (*model.Scenario, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next()
}

func (c *Controller) next() (*model.Scenario, bool) {
	if c.state.View != ViewOutcome || c.state.OwnerScenarioID == 0 {
		return nil, false
	}
	return c.cat.Next(c.state.OwnerScenarioID)
}

// GoToNextScenario shows the detail of the successor scenario directly,
// skipping the list.
func (c *Controller) GoToNextScenario() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.View != ViewOutcome {
		return fmt.Errorf("next scenario: %w", ErrWrongView)
	}
	s, ok := c.next()
	if !ok {
		return ErrNoNextScenario
	}
	c.goTo(s.ID)
	return nil
}

func (c *Controller) goTo(id int) {
	c.state.View = ViewScenarios
	c.state.SelectedChoice = nil
	c.state.OwnerScenarioID = 0
	c.state.ActiveScenarioID = id
}

// TogglePresentationMode flips presentation mode. It never changes
// navigation.
func (c *Controller) TogglePresentationMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PresentationMode = !c.state.PresentationMode
	return c.state.PresentationMode
}

// SetPresentationMode sets presentation mode explicitly.
func (c *Controller) SetPresentationMode(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.PresentationMode = on
}

// ReplaceCatalog swaps the catalog and restarts navigation on the list.
// Presentation mode survives; transitions scheduled earlier become stale.
func (c *Controller) ReplaceCatalog(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cat = cat
	c.state = State{PresentationMode: c.state.PresentationMode}
	c.pendingExit, c.pendingTransition = 0, 0
	c.generation++
	debug.Log("session: catalog replaced (%d scenarios), generation %d", cat.Len(), c.generation)
}
