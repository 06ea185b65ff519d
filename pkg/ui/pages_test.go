package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
	"github.com/vanderheijden86/medadventure/pkg/session"
)

// flatten strips styling and box drawing and collapses whitespace, so
// wrapped text can be matched as one line.
func flatten(s string) string {
	s = ansi.Strip(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '│', '╭', '╮', '╰', '╯', '─', '•':
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// assertInOrder checks that every needle appears in haystack, each after
// the previous one.
func assertInOrder(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	from := 0
	for i, n := range needles {
		idx := strings.Index(haystack[from:], n)
		if idx < 0 {
			t.Fatalf("item %d %q missing or out of order in:\n%s", i, n, haystack)
		}
		from += idx + len(n)
	}
}

func TestDetailRendersEveryScenario(t *testing.T) {
	for _, s := range catalog.Default().Scenarios() {
		t.Run(s.Title, func(t *testing.T) {
			m, _ := newTestModel(t, 100, 40)
			if err := m.Session().FocusScenario(s.ID); err != nil {
				t.Fatal(err)
			}
			out := flatten(m.renderDetail())

			assertInOrder(t, out,
				flatten(s.Title),
				flatten(s.Subtitle),
				flatten(richtext.Plain(s.Intro)),
				strings.ToUpper(s.Prompt()),
			)

			titles := make([]string, 0, len(s.Choices))
			for i, c := range s.Choices {
				titles = append(titles, flatten(string(rune('1'+i))+" "+c.Title))
			}
			assertInOrder(t, out, titles...)
			if got := strings.Count(m.renderDetail(), "╭"); got != len(s.Choices) {
				t.Fatalf("rendered %d choice buttons, want %d", got, len(s.Choices))
			}
		})
	}
}

func TestExpandedTakeawaysKeepAuthoredOrder(t *testing.T) {
	scenarios := catalog.Default().Scenarios()
	for pos, s := range scenarios {
		for ci, c := range s.Choices {
			t.Run(c.Title, func(t *testing.T) {
				m, _ := newTestModel(t, 100, 40)
				m = toOutcome(t, m, pos, ci)

				m, _ = press(m, "t")
				if !m.TakeawaysOpen() {
					t.Fatal("t should expand the takeaways")
				}
				expanded, _ := m.renderOutcome()
				out := flatten(expanded)

				keys := make([]string, 0, len(c.Outcome.KeyTakeaways))
				for _, tk := range c.Outcome.KeyTakeaways {
					keys = append(keys, takeawayKey(tk))
				}
				assertInOrder(t, out, keys...)
			})
		}
	}
}

// takeawayKey is a short plain fragment identifying a takeaway: its bold
// label, or the first words of its body.
func takeawayKey(tk string) string {
	label, body := richtext.Split(tk)
	if label != "" {
		return label
	}
	words := strings.Fields(body)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

func TestDetailForUnresolvedFocusRendersNothing(t *testing.T) {
	m, _ := newTestModel(t, 100, 40)
	m, cmd := press(m, "enter")
	m = settle(t, m, cmd)
	if m.Session().Page() != session.PageDetail {
		t.Fatal("expected detail page")
	}

	// The catalog changes underneath the model without a CatalogChangedMsg,
	// as when a reload races a render.
	m.Session().ReplaceCatalog(catalog.MustNew([]model.Scenario{{
		ID:    7,
		Title: "Replacement",
		Choices: []model.Choice{{
			ID:      1,
			Title:   "Only",
			Outcome: model.Outcome{Result: "Gap in coverage!"},
		}},
	}}))

	if got := m.renderDetail(); got != "" {
		t.Fatalf("expected empty detail, got %q", got)
	}
	if out, _ := m.renderOutcome(); out != "" {
		t.Fatalf("expected empty outcome, got %q", out)
	}
	_ = m.View()

	m, _ = press(m, "2")
	m, _ = press(m, "enter")
	if m.Session().Page() == session.PageOutcome {
		t.Fatal("keys must not select a choice of a vanished scenario")
	}
}
