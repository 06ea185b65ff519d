package main

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
	"github.com/vanderheijden86/medadventure/pkg/session"
)

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [scenario-id]",
		Short: "List scenarios, or print one scenario with every outcome",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			w := out(cmd)

			if len(args) == 0 {
				if asJSON {
					return writeJSON(w, cat.Scenarios())
				}
				for _, s := range cat.Scenarios() {
					fmt.Fprintf(w, "%3d  %s", s.ID, s.Title)
					if s.Subtitle != "" {
						fmt.Fprintf(w, " · %s", s.Subtitle)
					}
					fmt.Fprintf(w, "  (%d choices)\n", len(s.Choices))
				}
				return nil
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("scenario id must be a number: %q", args[0])
			}
			s, ok := cat.Find(id)
			if !ok {
				return fmt.Errorf("%w: %d", session.ErrScenarioNotFound, id)
			}
			if asJSON {
				return writeJSON(w, s)
			}
			printScenario(w, *s)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printScenario(w io.Writer, s model.Scenario) {
	fmt.Fprintf(w, "%d. %s\n", s.ID, s.Title)
	if s.Subtitle != "" {
		fmt.Fprintf(w, "   %s\n", s.Subtitle)
	}
	if s.Intro != "" {
		fmt.Fprintf(w, "\n%s\n", richtext.Plain(s.Intro))
	}
	fmt.Fprintf(w, "\n%s\n", s.Prompt())

	for _, c := range s.Choices {
		o := c.Outcome
		fmt.Fprintf(w, "\n  [%d] %s\n", c.ID, c.Title)
		fmt.Fprintf(w, "      [%s] %s\n", o.Category(), richtext.Plain(o.Result))
		for _, t := range o.KeyTakeaways {
			label, body := richtext.Split(t)
			if label != "" {
				fmt.Fprintf(w, "      - %s %s\n", label, body)
				continue
			}
			fmt.Fprintf(w, "      - %s\n", body)
		}
	}
}
