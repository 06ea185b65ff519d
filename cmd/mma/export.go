package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vanderheijden86/medadventure/internal/datasource"
	"github.com/vanderheijden86/medadventure/pkg/export"
	"github.com/vanderheijden86/medadventure/pkg/hooks"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		output  string
		title   string
		noHooks bool
	)

	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as a decision map, study guide or database",
		Long: `Exports the catalog for handouts and authoring.

Formats: ` + strings.Join(names, ", ") + `

When --format is omitted it is inferred from the output extension
(.mmd, .svg, .png, .md, .db).

Commands in .mma/hooks.yaml, next to the catalog file or in the working
directory, run before (pre-export) and after (post-export) the file is
written. They see MMA_EXPORT_PATH, MMA_EXPORT_FORMAT, MMA_SCENARIO_COUNT,
MMA_CATALOG_HASH and MMA_TIMESTAMP.`,
		Example: `  mma export -o map.svg
  mma export --format markdown -o guide.md
  mma export --format sqlite -o catalog.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			var f export.Format
			var err error
			if format != "" {
				f, err = export.ParseFormat(format)
			} else {
				f, err = export.FormatForPath(output)
			}
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cat, source, err := a.loadCatalog(ctx)
			if err != nil {
				return err
			}

			executor, err := hooks.RunHooks(hooksDir(source), hooks.ExportContext{
				ExportPath:    output,
				ExportFormat:  string(f),
				ScenarioCount: cat.Len(),
				CatalogHash:   export.DataHash(cat),
				Timestamp:     time.Now(),
			}, noHooks)
			if err != nil {
				return fmt.Errorf("loading hooks: %w", err)
			}
			if executor != nil {
				if err := executor.RunPreExport(ctx); err != nil {
					fmt.Fprint(cmd.ErrOrStderr(), executor.Summary())
					return err
				}
			}

			if err := export.ToFile(cat, f, output, title); err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}
			fmt.Fprintf(out(cmd), "Wrote %s (%s, %d scenarios)\n", output, f, cat.Len())

			if executor != nil {
				postErr := executor.RunPostExport(ctx)
				fmt.Fprint(out(cmd), executor.Summary())
				return postErr
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+strings.Join(names, "|"))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file")
	cmd.Flags().StringVar(&title, "title", "", "Title for map and guide exports")
	cmd.Flags().BoolVar(&noHooks, "no-hooks", false, "Skip .mma/hooks.yaml")
	return cmd
}

// hooksDir is the directory searched for .mma/hooks.yaml: the catalog's
// directory when it came from a file, else the working directory.
func hooksDir(source datasource.DataSource) string {
	if source.Path != "" {
		return filepath.Dir(source.Path)
	}
	wd, _ := os.Getwd()
	return wd
}
