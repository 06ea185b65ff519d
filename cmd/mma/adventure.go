package main

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/medadventure/internal/datasource"
	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/config"
	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/plain"
	"github.com/vanderheijden86/medadventure/pkg/session"
	"github.com/vanderheijden86/medadventure/pkg/ui"
	"github.com/vanderheijden86/medadventure/pkg/watcher"
)

func (a *app) runAdventure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cat, source, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	ctrl := session.New(cat)
	ctrl.SetPresentationMode(a.cfg.UI.Presentation)

	if a.plain || !isTerminal() {
		return plain.New(ctrl, out(cmd), nil).Run(ctx)
	}

	// The alternate screen owns the terminal; keep verbose output in the
	// debug log file instead of stderr.
	if a.verbose {
		debug.SetLogger(nil)
		debug.SetEnabled(true)
	}

	opts := ui.Options{Timings: sessionTimings(a.cfg.Timings)}
	theme := ui.ThemeFor(a.cfg.UI.Theme)
	opts.Theme = &theme

	if a.cfg.Watch.Enabled && source.Path != "" {
		w, err := watcher.NewWatcher(source.Path,
			watcher.WithDebounceDuration(a.cfg.Watch.Debounce()),
			watcher.WithForcePoll(a.cfg.Watch.Poll),
			watcher.WithOnError(func(err error) { debug.Log("watcher: %v", err) }),
		)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		opts.Watcher = w
		opts.Reload = func() (*catalog.Catalog, error) {
			return datasource.LoadFromSource(source)
		}
	}

	m := ui.NewModel(ctrl, opts)
	defer m.Stop()

	return runTUIProgram(ctx, m)
}

func sessionTimings(t config.TimingsConfig) session.Timings {
	return session.Timings{
		TransitionDelay: t.Transition(),
		ScrollSettle:    t.ScrollSettle(),
		ScrollDuration:  t.ScrollDuration(),
		ScrollOffset:    t.ScrollOffsetRows,
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// runTUIProgram runs the program until it quits or ctx is cancelled. A
// cancelled context asks the program to quit and kills it if it has not
// exited within five seconds.
func runTUIProgram(ctx context.Context, m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	go func() {
		select {
		case <-runDone:
			return
		case <-ctx.Done():
		}

		p.Quit()

		select {
		case <-runDone:
		case <-time.After(5 * time.Second):
			p.Kill()
		}
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
