package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/medadventure/internal/datasource"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

var errValidationFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var stats bool
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check catalog sources for errors and disagreements",
		Long: `Loads every catalog source found in the directory (catalog.db,
catalog.yaml, catalog.yml, catalog.json), reports the ones that fail to
validate, and compares the valid ones against each other.

With --catalog only that file is checked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := out(cmd)
			ctx := cmd.Context()

			var sources []datasource.DataSource
			if a.cfg.Catalog != "" {
				s, err := datasource.SourceForPath(a.cfg.Catalog)
				if err != nil {
					return err
				}
				sources = []datasource.DataSource{s}
				if err := datasource.ValidateSources(ctx, sources); err != nil {
					return err
				}
			} else {
				var err error
				sources, err = datasource.DiscoverSources(ctx, datasource.DiscoveryOptions{
					Dir:                    dir,
					ValidateAfterDiscovery: true,
					IncludeInvalid:         true,
				})
				if err != nil {
					return err
				}
			}

			if len(sources) == 0 {
				fmt.Fprintln(w, "No catalog sources found; the built-in catalog will be used.")
				sources = []datasource.DataSource{datasource.Builtin()}
				if err := datasource.ValidateSources(ctx, sources); err != nil {
					return err
				}
			}

			failed := false
			for _, s := range sources {
				mark := "✓"
				if !s.Valid {
					mark = "✗"
					failed = true
				}
				fmt.Fprintf(w, "%s %s\n", mark, s)
			}

			for _, d := range datasource.CheckAllSourcesConsistent(sources) {
				failed = true
				fmt.Fprint(w, d.Summary())
			}

			if best, err := datasource.SelectBestSource(sources); err == nil {
				if cat, err := datasource.LoadFromSource(best); err == nil {
					st := cat.Stats()
					name := best.Path
					if name == "" {
						name = "<builtin>"
					} else {
						name = filepath.Base(name)
					}
					fmt.Fprintf(w, "\n%s: %d scenarios, %d choices, %d takeaways\n", name, st.Scenarios, st.Choices, st.Takeaways)
					for _, c := range model.Categories() {
						fmt.Fprintf(w, "  %-8s %d\n", c, st.ByCategory[c])
					}
				}
			}

			if stats {
				fmt.Fprintln(w, "\nTimings:")
				for _, s := range metrics.AllTimingStats() {
					if s.Count == 0 {
						continue
					}
					fmt.Fprintf(w, "  %s\n", s)
				}
			}

			if failed {
				return errValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print load timings")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to search (default: current directory)")
	return cmd
}
