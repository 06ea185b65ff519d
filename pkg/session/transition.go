package session

import (
	"fmt"
	"time"

	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// Timings are the fixed delays of the session's visual transitions.
type Timings struct {
	// TransitionDelay is the fade-out before a navigation applies.
	TransitionDelay time.Duration
	// ScrollSettle is the pause after expanding takeaways before scrolling.
	ScrollSettle time.Duration
	// ScrollDuration is the length of the takeaways scroll animation.
	ScrollDuration time.Duration
	// ScrollOffset is how many rows above the takeaways header stay visible.
	ScrollOffset int
}

// DefaultTimings returns the standard transition timings.
func DefaultTimings() Timings {
	return Timings{
		TransitionDelay: 300 * time.Millisecond,
		ScrollSettle:    150 * time.Millisecond,
		ScrollDuration:  time.Second,
		ScrollOffset:    1,
	}
}

// OpKind names a deferred navigation.
type OpKind int

const (
	OpFocus OpKind = iota
	OpUnfocus
	OpSelect
	OpBack
	OpNext
)

func (k OpKind) String() string {
	switch k {
	case OpFocus:
		return "focus"
	case OpUnfocus:
		return "unfocus"
	case OpSelect:
		return "select"
	case OpBack:
		return "back"
	case OpNext:
		return "next"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// exits reports whether the op fades the whole view (Exiting) rather than
// the list/detail body (Transitioning).
func (k OpKind) exits() bool {
	return k == OpSelect || k == OpBack || k == OpNext
}

// Op is a navigation request. Build one with Focus, Unfocus, Select, Back
// or Next.
type Op struct {
	Kind       OpKind
	ScenarioID int
	Choice     model.Choice
}

func Focus(id int) Op { return Op{Kind: OpFocus, ScenarioID: id} }

func Unfocus() Op { return Op{Kind: OpUnfocus} }

func Select(choice model.Choice) Op { return Op{Kind: OpSelect, Choice: choice} }

func Back() Op { return Op{Kind: OpBack} }

func Next() Op { return Op{Kind: OpNext} }

// Pending is a navigation whose state change has been deferred. It is
// applied with Controller.Apply once the transition delay elapses.
type Pending struct {
	Op         Op
	generation uint64
}

// Effect describes the side effects the view must perform after a
// transition applies.
type Effect struct {
	// ScrollTop resets the viewport to the top.
	ScrollTop bool
}

// Begin validates op, raises its transient flag and returns the pending
// transition. Next is resolved to its target scenario here, so a later
// Apply lands where the user was looking when they asked. Select records
// the focused scenario as the choice's owner.
func (c *Controller) Begin(op Op) (Pending, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch op.Kind {
	case OpFocus:
		if c.state.View != ViewScenarios {
			return Pending{}, fmt.Errorf("focus scenario %d: %w", op.ScenarioID, ErrWrongView)
		}
		if c.cat.IndexOf(op.ScenarioID) < 0 {
			return Pending{}, fmt.Errorf("focus scenario %d: %w", op.ScenarioID, ErrScenarioNotFound)
		}
	case OpSelect:
		if c.state.View != ViewScenarios {
			return Pending{}, fmt.Errorf("select choice %d: %w", op.Choice.ID, ErrWrongView)
		}
		op.ScenarioID = c.state.ActiveScenarioID
	case OpNext:
		s, ok := c.next()
		if !ok {
			return Pending{}, ErrNoNextScenario
		}
		op.ScenarioID = s.ID
	case OpUnfocus, OpBack:
	default:
		return Pending{}, fmt.Errorf("unknown operation %v", op.Kind)
	}

	if op.Kind.exits() {
		c.pendingExit++
		c.state.Exiting = true
	} else {
		c.pendingTransition++
		c.state.Transitioning = true
	}
	debug.Log("session: begin %v (exit=%d transition=%d)", op.Kind, c.pendingExit, c.pendingTransition)
	return Pending{Op: op, generation: c.generation}, nil
}

// Apply performs a pending transition's state change. Transitions apply in
// the order their timers fire, so the last one wins; none is cancelled.
// The transient flag drops once no transition of its kind is outstanding.
// Two selects from one scenario resolve to the later choice. A state
// change that is no longer valid (for example a focus that fires after a
// choice was selected) is skipped and reported, but the flag bookkeeping
// still completes.
func (c *Controller) Apply(p Pending) (Effect, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.generation != c.generation {
		return Effect{}, ErrStale
	}

	var err error
	switch p.Op.Kind {
	case OpFocus:
		err = c.focus(p.Op.ScenarioID)
	case OpUnfocus:
		c.unfocus()
	case OpSelect:
		err = c.applySelect(p.Op)
	case OpBack:
		c.back()
	case OpNext:
		if c.cat.IndexOf(p.Op.ScenarioID) < 0 {
			err = fmt.Errorf("next scenario %d: %w", p.Op.ScenarioID, ErrScenarioNotFound)
		} else {
			c.goTo(p.Op.ScenarioID)
		}
	}

	if p.Op.Kind.exits() {
		if c.pendingExit > 0 {
			c.pendingExit--
		}
		c.state.Exiting = c.pendingExit > 0
	} else {
		if c.pendingTransition > 0 {
			c.pendingTransition--
		}
		c.state.Transitioning = c.pendingTransition > 0
	}
	debug.LogIf(err != nil, "session: apply %v: %v", p.Op.Kind, err)

	return Effect{ScrollTop: true}, err
}

// applySelect shows the outcome of op.Choice, owned by the scenario focused
// at Begin. When an earlier select from the same scenario already landed,
// the later choice replaces it.
func (c *Controller) applySelect(op Op) error {
	if c.state.View == ViewOutcome && c.state.OwnerScenarioID == op.ScenarioID {
		c.setChoice(op.Choice)
		return nil
	}
	if err := c.selectChoice(op.Choice); err != nil {
		return err
	}
	if op.ScenarioID != 0 {
		c.state.OwnerScenarioID = op.ScenarioID
	}
	return nil
}

// Do begins and immediately applies op. Frontends without animation use it.
func (c *Controller) Do(op Op) (Effect, error) {
	p, err := c.Begin(op)
	if err != nil {
		return Effect{}, err
	}
	return c.Apply(p)
}
