package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ScenarioDelegate renders scenario cards in the list
type ScenarioDelegate struct {
	Theme        Theme
	Presentation bool // Taller cards with extra spacing
}

func (d ScenarioDelegate) Height() int {
	if d.Presentation {
		return 4
	}
	return 3
}

func (d ScenarioDelegate) Spacing() int {
	return 1
}

func (d ScenarioDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d ScenarioDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(ScenarioItem)
	if !ok {
		return
	}

	t := d.Theme
	width := m.Width()
	if width <= 0 {
		width = ContentWidth
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge,
	// and leave room for the selection border.
	inner := width - 1 - SpaceSM
	if inner < 10 {
		inner = 10
	}

	isSelected := index == m.Index()

	// Layout:
	//   Title · Subtitle
	//   intro (truncated)
	//   [blank in presentation mode]
	//   PLAY THIS SCENARIO →
	title := t.PrimaryBold.Render(truncateRunesHelper(i.Scenario.Title, inner, "…"))
	if sub := i.Scenario.Subtitle; sub != "" {
		room := inner - lipgloss.Width(i.Scenario.Title) - 3
		if room > 4 {
			title += t.MutedText.Render(" · " + truncateRunesHelper(sub, room, "…"))
		}
	}

	intro := t.Base.Render(truncateRunesHelper(i.Intro(), inner, "…"))

	cta := "PLAY THIS SCENARIO →"
	ctaStyle := t.SecondaryText
	if isSelected {
		ctaStyle = t.AccentBold
	}

	lines := []string{title, intro}
	if d.Presentation {
		lines = append(lines, "")
	}
	lines = append(lines, ctaStyle.Render(cta))
	card := strings.Join(lines, "\n")

	if isSelected {
		card = t.Selected.Render(card)
	} else {
		card = t.Renderer.NewStyle().PaddingLeft(SpaceSM).Render(card)
	}
	_, _ = io.WriteString(w, card)
}
