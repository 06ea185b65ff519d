// Package plain runs the adventure as a line-oriented walkthrough using
// huh forms. It serves terminals where the full-screen UI is unwanted and
// non-interactive stdin, where huh falls back to accessible prompts.
package plain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
	"github.com/vanderheijden86/medadventure/pkg/session"
)

// Action is what the reader does after an outcome.
type Action int

const (
	ActionBack Action = iota
	ActionNext
	ActionQuit
)

// Prompter asks the reader for each decision of the walkthrough.
type Prompter interface {
	// PickScenario returns the chosen scenario id, or quit.
	PickScenario(scenarios []model.Scenario) (id int, quit bool, err error)
	// PickChoice returns the index of the chosen choice, or back.
	PickChoice(s model.Scenario) (index int, back bool, err error)
	// AfterOutcome asks where to go next. ActionNext is only offered when
	// hasNext is true.
	AfterOutcome(hasNext bool) (Action, error)
}

// Walkthrough drives a session controller from prompts.
type Walkthrough struct {
	ctrl     *session.Controller
	out      io.Writer
	prompter Prompter
}

// New creates a walkthrough writing to out. A nil prompter uses huh forms.
func New(ctrl *session.Controller, out io.Writer, p Prompter) *Walkthrough {
	if p == nil {
		p = FormPrompter{}
	}
	return &Walkthrough{ctrl: ctrl, out: out, prompter: p}
}

// Run loops until the reader quits or ctx is cancelled.
func (w *Walkthrough) Run(ctx context.Context) error {
	w.printBanner()
	for {
		if ctx.Err() != nil {
			return nil
		}
		var err error
		switch w.ctrl.Page() {
		case session.PageList:
			err = w.list()
		case session.PageDetail:
			err = w.detail()
		case session.PageOutcome:
			err = w.outcome()
		}
		if errors.Is(err, errQuit) || errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("quit")

func (w *Walkthrough) list() error {
	id, quit, err := w.prompter.PickScenario(w.ctrl.Catalog().Scenarios())
	if err != nil {
		return err
	}
	if quit {
		return errQuit
	}
	_, err = w.ctrl.Do(session.Focus(id))
	return err
}

func (w *Walkthrough) detail() error {
	s, ok := w.ctrl.ActiveScenario()
	if !ok {
		_, err := w.ctrl.Do(session.Unfocus())
		return err
	}
	w.printScenario(*s)

	idx, back, err := w.prompter.PickChoice(*s)
	if err != nil {
		return err
	}
	if back {
		_, err = w.ctrl.Do(session.Unfocus())
		return err
	}
	if idx < 0 || idx >= len(s.Choices) {
		return fmt.Errorf("choice index %d out of range", idx)
	}
	_, err = w.ctrl.Do(session.Select(s.Choices[idx]))
	return err
}

func (w *Walkthrough) outcome() error {
	st := w.ctrl.State()
	if st.SelectedChoice == nil {
		_, err := w.ctrl.Do(session.Back())
		return err
	}
	w.printOutcome(*st.SelectedChoice)

	_, hasNext := w.ctrl.NextScenario()
	act, err := w.prompter.AfterOutcome(hasNext)
	if err != nil {
		return err
	}
	switch act {
	case ActionNext:
		if !hasNext {
			return session.ErrNoNextScenario
		}
		_, err = w.ctrl.Do(session.Next())
	case ActionQuit:
		return errQuit
	default:
		_, err = w.ctrl.Do(session.Back())
	}
	return err
}

func (w *Walkthrough) printBanner() {
	fmt.Fprintln(w.out, "")
	fmt.Fprintln(w.out, "Maryland Medicare Adventure")
	fmt.Fprintln(w.out, "Choose your path and learn the rules for 2026!")
	fmt.Fprintln(w.out, strings.Repeat("─", 48))
	fmt.Fprintln(w.out, "")
}

func (w *Walkthrough) printScenario(s model.Scenario) {
	fmt.Fprintf(w.out, "%s\n", s.Title)
	if s.Subtitle != "" {
		fmt.Fprintf(w.out, "%s\n", s.Subtitle)
	}
	fmt.Fprintf(w.out, "\n%s\n\n", richtext.Plain(s.Intro))
}

func (w *Walkthrough) printOutcome(c model.Choice) {
	fmt.Fprintf(w.out, "\nYOU SELECTED: %s\n\n", c.Title)
	fmt.Fprintf(w.out, "[%s] %s\n", strings.ToUpper(c.Outcome.Category().String()), c.Outcome.Result)
	if c.Outcome.Clarification != "" {
		fmt.Fprintf(w.out, "\n%s\n", richtext.Plain(c.Outcome.Clarification))
	}
	if len(c.Outcome.KeyTakeaways) > 0 {
		fmt.Fprintln(w.out, "\nKey Takeaways & Lessons")
		for _, tk := range c.Outcome.KeyTakeaways {
			label, body := richtext.Split(tk)
			if label != "" {
				fmt.Fprintf(w.out, "  ✓ %s %s\n", label, body)
			} else {
				fmt.Fprintf(w.out, "  ✓ %s\n", body)
			}
		}
	}
	fmt.Fprintln(w.out, "")
}

// FormPrompter asks with huh forms.
type FormPrompter struct{}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		debug.Log("plain: stdin is not a terminal, using accessible forms")
		form = form.WithAccessible(true)
	}
	return form
}

const quitID = 0

func (FormPrompter) PickScenario(scenarios []model.Scenario) (int, bool, error) {
	opts := make([]huh.Option[int], 0, len(scenarios)+1)
	for _, s := range scenarios {
		label := s.Title
		if s.Subtitle != "" {
			label += " · " + s.Subtitle
		}
		opts = append(opts, huh.NewOption(label, s.ID))
	}
	opts = append(opts, huh.NewOption("Quit", quitID))

	id := quitID
	if len(scenarios) > 0 {
		id = scenarios[0].ID
	}
	form := newForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Choose a scenario").
			Options(opts...).
			Value(&id),
	))
	if err := form.Run(); err != nil {
		return 0, false, err
	}
	return id, id == quitID, nil
}

func (FormPrompter) PickChoice(s model.Scenario) (int, bool, error) {
	opts := make([]huh.Option[int], 0, len(s.Choices)+1)
	for i, c := range s.Choices {
		label := fmt.Sprintf("%d. %s", i+1, c.Title)
		if c.Subtitle != "" {
			label += " (" + c.Subtitle + ")"
		}
		opts = append(opts, huh.NewOption(label, i))
	}
	opts = append(opts, huh.NewOption("Back to Scenario List", -1))

	idx := 0
	form := newForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title(s.Prompt()).
			Options(opts...).
			Value(&idx),
	))
	if err := form.Run(); err != nil {
		return 0, false, err
	}
	return idx, idx < 0, nil
}

func (FormPrompter) AfterOutcome(hasNext bool) (Action, error) {
	opts := []huh.Option[Action]{huh.NewOption("Back to Scenarios", ActionBack)}
	if hasNext {
		opts = append(opts, huh.NewOption("Next Scenario", ActionNext))
	}
	opts = append(opts, huh.NewOption("Quit", ActionQuit))

	act := ActionBack
	if hasNext {
		act = ActionNext
	}
	form := newForm(huh.NewGroup(
		huh.NewSelect[Action]().
			Title("What next?").
			Options(opts...).
			Value(&act),
	))
	if err := form.Run(); err != nil {
		return ActionQuit, err
	}
	return act, nil
}
