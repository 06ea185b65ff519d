// Package session owns the navigation state of one browsing session over a
// scenario catalog: which page is showing, which scenario is focused, which
// choice was picked, and the transient flags that drive fade transitions.
package session

import (
	"errors"

	"github.com/vanderheijden86/medadventure/pkg/model"
)

// Errors returned by controller operations.
var (
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrWrongView        = errors.New("operation not valid in the current view")
	ErrNoNextScenario   = errors.New("no next scenario")
	ErrStale            = errors.New("transition was scheduled before the catalog changed")
)

// View is the top-level view.
type View int

const (
	ViewScenarios View = iota
	ViewOutcome
)

func (v View) String() string {
	if v == ViewOutcome {
		return "outcome"
	}
	return "scenarios"
}

// Page is the navigable page derived from the view and focus.
type Page int

const (
	PageList Page = iota
	PageDetail
	PageOutcome
)

func (p Page) String() string {
	switch p {
	case PageDetail:
		return "detail"
	case PageOutcome:
		return "outcome"
	default:
		return "list"
	}
}

// State is a snapshot of the controller. Scenario ids are positive, so a
// zero ActiveScenarioID means the full list is showing.
type State struct {
	View             View
	ActiveScenarioID int
	SelectedChoice   *model.Choice
	// OwnerScenarioID is the scenario the selected choice belongs to.
	OwnerScenarioID  int
	Exiting          bool
	Transitioning    bool
	PresentationMode bool
}

// Page derives the navigable page from the state.
func (s State) Page() Page {
	switch {
	case s.View == ViewOutcome:
		return PageOutcome
	case s.ActiveScenarioID != 0:
		return PageDetail
	default:
		return PageList
	}
}

// Busy reports whether a fade transition is in flight.
func (s State) Busy() bool {
	return s.Exiting || s.Transitioning
}
