// Command mma runs the Maryland Medicare Adventure: an interactive
// scenario walkthrough in the terminal, plus authoring commands to validate,
// inspect and export scenario catalogs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vanderheijden86/medadventure/internal/datasource"
	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/config"
	"github.com/vanderheijden86/medadventure/pkg/debug"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds flag values shared by every command.
type app struct {
	catalogPath  string
	verbose      bool
	plain        bool
	presentation bool
	watch        bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	return (&app{}).rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mma",
		Short: "Maryland Medicare Adventure",
		Long: `Maryland Medicare Adventure is an interactive walkthrough of Medicare
enrollment scenarios. Pick a scenario, make a choice, and read why it
worked out the way it did.

Run without arguments to start the interactive adventure.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			debug.Sync()
		},
		RunE: a.runAdventure,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.catalogPath, "catalog", "c", "", "Catalog file or database (default: discover in the current directory)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Write debug logs to stderr")

	f := root.Flags()
	f.BoolVar(&a.plain, "plain", false, "Use line-oriented prompts instead of the full-screen interface")
	f.BoolVarP(&a.presentation, "presentation", "p", false, "Start in presentation mode")
	f.BoolVarP(&a.watch, "watch", "w", false, "Reload the catalog when its file changes")

	root.AddCommand(
		newValidateCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and installs the logger. Flags win over the
// environment and the config file.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog = a.catalogPath
	}
	if flags.Changed("presentation") {
		cfg.UI.Presentation = a.presentation
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = a.watch
	}
	a.cfg = cfg

	if a.verbose {
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		zc.OutputPaths = []string{"stderr"}
		zc.DisableStacktrace = true
		l, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		debug.SetLogger(l)
	}
	return nil
}

// loadCatalog resolves the catalog from the configured path or by
// discovery in the working directory.
func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, datasource.DataSource, error) {
	cat, source, err := datasource.LoadCatalog(ctx, "", a.cfg.Catalog)
	if err != nil {
		return nil, source, fmt.Errorf("loading catalog: %w", err)
	}
	debug.Log("catalog: %s", source)
	return cat, source, nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
