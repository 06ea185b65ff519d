package session

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

func mustChoice(t *testing.T, c *Controller, scenarioID, index int) model.Choice {
	t.Helper()
	s, ok := c.Catalog().Find(scenarioID)
	if !ok {
		t.Fatalf("scenario %d missing", scenarioID)
	}
	return s.Choices[index]
}

func TestNewSessionDefaults(t *testing.T) {
	c := New(catalog.Default())
	want := State{View: ViewScenarios}
	if diff := cmp.Diff(want, c.State()); diff != "" {
		t.Fatalf("initial state (-want +got):\n%s", diff)
	}
	if c.Page() != PageList {
		t.Fatalf("expected list page, got %v", c.Page())
	}
	if _, ok := c.ActiveScenario(); ok {
		t.Fatal("no scenario should be active on the list")
	}
}

func TestStateMachine(t *testing.T) {
	c := New(catalog.Default())

	if err := c.FocusScenario(1); err != nil {
		t.Fatalf("FocusScenario: %v", err)
	}
	if c.Page() != PageDetail {
		t.Fatalf("expected detail, got %v", c.Page())
	}

	c.UnfocusScenario()
	if c.Page() != PageList {
		t.Fatalf("expected list, got %v", c.Page())
	}
	c.UnfocusScenario() // valid from the list too
	if c.Page() != PageList {
		t.Fatal("unfocus on the list must stay on the list")
	}

	if err := c.FocusScenario(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SelectChoice(mustChoice(t, c, 1, 1)); err != nil {
		t.Fatalf("SelectChoice: %v", err)
	}
	st := c.State()
	if st.Page() != PageOutcome || st.SelectedChoice == nil || st.OwnerScenarioID != 1 {
		t.Fatalf("unexpected outcome state %+v", st)
	}

	c.BackToScenarios()
	st = c.State()
	if st.Page() != PageList || st.ActiveScenarioID != 0 || st.SelectedChoice != nil {
		t.Fatalf("back must return to the full list, got %+v", st)
	}
}

func TestFocusUnknownScenarioLeavesStateUntouched(t *testing.T) {
	c := New(catalog.Default())
	if err := c.FocusScenario(2); err != nil {
		t.Fatal(err)
	}
	before := c.State()

	err := c.FocusScenario(99)
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Fatalf("expected ErrScenarioNotFound, got %v", err)
	}
	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Fatalf("state changed (-before +after):\n%s", diff)
	}
}

func TestFocusInOutcomeIsRejected(t *testing.T) {
	c := New(catalog.Default())
	_ = c.FocusScenario(1)
	_ = c.SelectChoice(mustChoice(t, c, 1, 0))

	if err := c.FocusScenario(2); !errors.Is(err, ErrWrongView) {
		t.Fatalf("expected ErrWrongView, got %v", err)
	}
	if err := c.SelectChoice(mustChoice(t, c, 1, 1)); !errors.Is(err, ErrWrongView) {
		t.Fatalf("expected ErrWrongView for a second select, got %v", err)
	}
}

func TestGoToNextScenario(t *testing.T) {
	c := New(catalog.Default())

	if err := c.GoToNextScenario(); !errors.Is(err, ErrWrongView) {
		t.Fatalf("next outside the outcome view: got %v", err)
	}

	for _, id := range []int{1, 2, 3} {
		c.BackToScenarios()
		_ = c.FocusScenario(id)
		_ = c.SelectChoice(mustChoice(t, c, id, 0))

		next, ok := c.NextScenario()
		if !ok || next.ID != id+1 {
			t.Fatalf("NextScenario after %d = %v, %v", id, next, ok)
		}
		if err := c.GoToNextScenario(); err != nil {
			t.Fatalf("GoToNextScenario from %d: %v", id, err)
		}
		st := c.State()
		if st.Page() != PageDetail || st.ActiveScenarioID != id+1 || st.SelectedChoice != nil {
			t.Fatalf("expected detail of %d, got %+v", id+1, st)
		}
	}
}

func TestNoNextScenarioAfterLast(t *testing.T) {
	c := New(catalog.Default())
	_ = c.FocusScenario(4)
	_ = c.SelectChoice(mustChoice(t, c, 4, 2))

	if _, ok := c.NextScenario(); ok {
		t.Fatal("the last scenario must not offer a next scenario")
	}
	before := c.State()
	if err := c.GoToNextScenario(); !errors.Is(err, ErrNoNextScenario) {
		t.Fatalf("expected ErrNoNextScenario, got %v", err)
	}
	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Fatalf("state changed:\n%s", diff)
	}
}

func TestNextFollowsCatalogOrderNotIDs(t *testing.T) {
	mk := func(id int) model.Scenario {
		return model.Scenario{ID: id, Title: "t", Choices: []model.Choice{{ID: 1, Title: "c", Outcome: model.Outcome{Result: "r"}}}}
	}
	c := New(catalog.MustNew([]model.Scenario{mk(30), mk(7), mk(12)}))
	_ = c.FocusScenario(30)
	_ = c.SelectChoice(mustChoice(t, c, 30, 0))
	if err := c.GoToNextScenario(); err != nil {
		t.Fatal(err)
	}
	if got := c.State().ActiveScenarioID; got != 7 {
		t.Fatalf("expected 7 after 30, got %d", got)
	}
}

func TestEndToEndForkInTheRoad(t *testing.T) {
	c := New(catalog.Default())

	if _, err := c.Do(Focus(2)); err != nil {
		t.Fatal(err)
	}
	s, ok := c.ActiveScenario()
	if !ok || s.Title != "Fork in the Road" {
		t.Fatalf("expected Fork in the Road, got %v", s)
	}

	choice := s.Choices[1]
	if choice.Title != "Choose Original Medicare + Part D" {
		t.Fatalf("unexpected second choice %q", choice.Title)
	}
	if _, err := c.Do(Select(choice)); err != nil {
		t.Fatal(err)
	}
	st := c.State()
	if st.Page() != PageOutcome {
		t.Fatalf("expected outcome, got %v", st.Page())
	}
	out := st.SelectedChoice.Outcome
	if out.Result != "Freedom of choice, but predictability issues." || out.Category() != model.CategoryNeutral {
		t.Fatalf("unexpected outcome %q (%v)", out.Result, out.Category())
	}
	if diff := cmp.Diff(choice.Outcome.KeyTakeaways, out.KeyTakeaways); diff != "" || len(out.KeyTakeaways) != 4 {
		t.Fatalf("takeaways must match in authored order:\n%s", diff)
	}

	if _, err := c.Do(Next()); err != nil {
		t.Fatal(err)
	}
	s, ok = c.ActiveScenario()
	if !ok || s.ID != 3 || s.Title != "Part D Panic" || c.Page() != PageDetail {
		t.Fatalf("expected detail of Part D Panic, got %v on %v", s, c.Page())
	}
}

func TestPresentationModeIsOrthogonal(t *testing.T) {
	c := New(catalog.Default())
	_ = c.FocusScenario(3)
	before := c.State()

	if !c.TogglePresentationMode() {
		t.Fatal("first toggle should enable presentation mode")
	}
	mid := c.State()
	mid.PresentationMode = false
	if diff := cmp.Diff(before, mid); diff != "" {
		t.Fatalf("toggle changed navigation:\n%s", diff)
	}
	if c.TogglePresentationMode() {
		t.Fatal("second toggle should disable presentation mode")
	}
	if diff := cmp.Diff(before, c.State()); diff != "" {
		t.Fatalf("double toggle is not idempotent:\n%s", diff)
	}
}

func TestStateSnapshotIsACopy(t *testing.T) {
	c := New(catalog.Default())
	_ = c.FocusScenario(1)
	_ = c.SelectChoice(mustChoice(t, c, 1, 0))

	st := c.State()
	st.SelectedChoice.Title = "mutated"
	st.SelectedChoice.Outcome.KeyTakeaways[0] = "mutated"

	again := c.State()
	if again.SelectedChoice.Title == "mutated" || again.SelectedChoice.Outcome.KeyTakeaways[0] == "mutated" {
		t.Fatal("State() leaked a reference to the selected choice")
	}
}

func TestReplaceCatalogResetsNavigation(t *testing.T) {
	c := New(catalog.Default())
	c.SetPresentationMode(true)
	_ = c.FocusScenario(2)

	other := catalog.MustNew([]model.Scenario{{
		ID: 9, Title: "Only", Choices: []model.Choice{{ID: 1, Title: "c", Outcome: model.Outcome{Result: "r"}}},
	}})
	c.ReplaceCatalog(other)

	st := c.State()
	if st.Page() != PageList || !st.PresentationMode {
		t.Fatalf("expected list with presentation mode kept, got %+v", st)
	}
	if c.Catalog().Len() != 1 {
		t.Fatal("catalog not replaced")
	}
}
