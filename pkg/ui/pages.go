package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
)

const (
	labelYouSelected = "You Selected"
	labelTakeaways   = "Key Takeaways & Lessons"
	labelBackToList  = "Back to Scenario List"
	labelBack        = "Back to Scenarios"
	labelNext        = "Next Scenario"
)

// sectionGap separates blocks; presentation mode spreads them out.
func (m Model) sectionGap() []string {
	if m.session.State().PresentationMode {
		return []string{"", ""}
	}
	return []string{""}
}

// renderDetail renders the focused scenario. A focus that no longer
// resolves renders nothing.
func (m Model) renderDetail() string {
	s, ok := m.session.ActiveScenario()
	if !ok {
		return ""
	}
	t := m.theme
	w := m.contentWidth()
	gap := m.sectionGap()

	lines := []string{t.PrimaryBold.Render(wrapText(s.Title, w))}
	if s.Subtitle != "" {
		lines = append(lines, t.MutedText.Render(wrapText(s.Subtitle, w)))
	}
	lines = append(lines, gap...)
	lines = append(lines, t.Base.Render(wrapText(richtext.Plain(s.Intro), w)))
	lines = append(lines, gap...)
	lines = append(lines, t.SectionLabel.Render(strings.ToUpper(s.Prompt())), RenderDivider(w))

	for i, c := range s.Choices {
		lines = append(lines, m.renderChoiceButton(i, c, w, i == m.choiceCursor))
	}

	lines = append(lines, gap...)
	lines = append(lines, RenderKeyHint("esc", labelBackToList))
	return strings.Join(lines, "\n")
}

func (m Model) renderChoiceButton(i int, c model.Choice, w int, selected bool) string {
	t := m.theme
	border := t.Border
	if selected {
		border = t.Accent
	}
	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(w - 2)

	num := t.AccentBold.Render(fmt.Sprintf("%d", i+1))
	inner := w - 2 - SpaceSM - SpaceMD
	title := t.PrimaryBold.Render(wrapText(c.Title, inner))
	body := lipgloss.JoinHorizontal(lipgloss.Top, num, strings.Repeat(" ", SpaceSM), title)
	if c.Subtitle != "" {
		sub := t.MutedText.Render(wrapText(c.Subtitle, inner))
		body = lipgloss.JoinVertical(lipgloss.Left, body, strings.Repeat(" ", SpaceMD)+sub)
	}
	return box.Render(body)
}

// renderOutcome renders the selected choice's outcome and returns the row
// of the takeaways accordion header within it.
func (m Model) renderOutcome() (string, int) {
	st := m.session.State()
	if st.SelectedChoice == nil {
		return "", 0
	}
	c := *st.SelectedChoice
	t := m.theme
	w := m.contentWidth()
	gap := m.sectionGap()

	cat := c.Outcome.Category()
	badge := RenderCategoryBadge(cat)
	resultStyle := t.Renderer.NewStyle().Foreground(t.CategoryColor(cat)).Bold(true)
	result := resultStyle.Render(wrapText(c.Outcome.Result, w-lipgloss.Width(badge)-1))

	parts := []string{
		t.SectionLabel.Render(strings.ToUpper(labelYouSelected)),
		t.PrimaryBold.Render(wrapText(c.Title, w)),
	}
	parts = append(parts, gap...)
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, badge, " ", result))
	parts = append(parts, gap...)
	if c.Outcome.Clarification != "" {
		card := PanelStyle.Width(w - 2).Render(t.Base.Render(wrapText(richtext.Plain(c.Outcome.Clarification), w-SpaceLG)))
		parts = append(parts, card)
		parts = append(parts, gap...)
	}

	// The accordion header sits one row below the panel's top border.
	headerLine := lipgloss.Height(strings.Join(parts, "\n")) + 1
	parts = append(parts, m.renderTakeaways(c.Outcome, w))
	parts = append(parts, gap...)

	hints := RenderKeyHint("esc", labelBack)
	if _, ok := m.session.NextScenario(); ok {
		hints += strings.Repeat(" ", SpaceLG) + RenderKeyHint("n", labelNext)
	}
	parts = append(parts, hints)

	return strings.Join(parts, "\n"), headerLine
}

func (m Model) renderTakeaways(o model.Outcome, w int) string {
	t := m.theme
	arrow, panel := "▸", PanelStyle
	if m.takeawaysOpen {
		arrow, panel = "▾", FocusedPanelStyle
	}
	header := t.PrimaryBold.Render(arrow+" "+labelTakeaways) + "  " + t.MutedText.Render("[t]")

	if !m.takeawaysOpen || len(o.KeyTakeaways) == 0 {
		return panel.Width(w - 2).Render(header)
	}

	rendered, err := m.renderer.Render(takeawaysMarkdown(o.KeyTakeaways))
	if err != nil {
		rendered = takeawaysPlain(o.KeyTakeaways, w-SpaceLG)
	}
	body := strings.Trim(trimTrailingBlankLines(rendered), "\n")
	return panel.Width(w - 2).Render(header + "\n" + body)
}

// takeawaysMarkdown renders takeaways as a markdown list in authored order.
func takeawaysMarkdown(takeaways []string) string {
	var sb strings.Builder
	for _, tk := range takeaways {
		sb.WriteString("- ")
		sb.WriteString(richtext.ToMarkdown(tk))
		sb.WriteString("\n")
	}
	return sb.String()
}

func takeawaysPlain(takeaways []string, w int) string {
	lines := make([]string, 0, len(takeaways))
	for _, tk := range takeaways {
		lines = append(lines, "✓ "+wrapText(richtext.Plain(tk), w-2))
	}
	return strings.Join(lines, "\n")
}

// outcomeMarkdown formats an outcome for the clipboard.
func outcomeMarkdown(c model.Choice) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", c.Title)
	fmt.Fprintf(&sb, "**%s** (%s)\n\n", c.Outcome.Result, c.Outcome.Category())
	if c.Outcome.Clarification != "" {
		sb.WriteString(richtext.ToMarkdown(c.Outcome.Clarification))
		sb.WriteString("\n\n")
	}
	if len(c.Outcome.KeyTakeaways) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", labelTakeaways)
		sb.WriteString(takeawaysMarkdown(c.Outcome.KeyTakeaways))
	}
	return sb.String()
}
