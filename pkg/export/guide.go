package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
	"github.com/vanderheijden86/medadventure/pkg/model"
	"github.com/vanderheijden86/medadventure/pkg/richtext"
)

var slugNonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9]+`)

// RenderMarkdownGuide produces a printable study guide: a table of contents,
// the decision map, then every scenario with each choice's outcome and
// takeaways.
func RenderMarkdownGuide(cat *catalog.Catalog, title string) string {
	if title == "" {
		title = "Maryland Medicare Adventure: Study Guide"
	}
	st := cat.Stats()
	scenarios := cat.Scenarios()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "*Catalog %s*\n\n", DataHash(cat))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| **Scenarios** | %d |\n", st.Scenarios)
	fmt.Fprintf(&sb, "| **Choices** | %d |\n", st.Choices)
	for _, c := range model.Categories() {
		fmt.Fprintf(&sb, "| %s %s outcomes | %d |\n", categoryEmoji(c), legendLabel(c), st.ByCategory[c])
	}
	sb.WriteString("\n")

	counts := make(map[string]int, len(scenarios))
	slugs := make([]string, len(scenarios))
	for i, s := range scenarios {
		slugs[i] = uniqueSlug(createSlug(scenarioHeading(s)), counts)
	}

	sb.WriteString("## Table of Contents\n\n")
	for i, s := range scenarios {
		fmt.Fprintf(&sb, "- [%s](#%s)\n", scenarioHeading(s), slugs[i])
	}
	sb.WriteString("\n---\n\n")

	sb.WriteString("## Decision Map\n\n```mermaid\n")
	sb.WriteString(GenerateMermaid(cat))
	sb.WriteString("```\n\n---\n\n")

	for i, s := range scenarios {
		fmt.Fprintf(&sb, "<a id=\"%s\"></a>\n\n", slugs[i])
		fmt.Fprintf(&sb, "## %s\n\n", scenarioHeading(s))
		if s.Subtitle != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", richtext.Plain(s.Subtitle))
		}
		if s.Intro != "" {
			sb.WriteString(richtext.ToMarkdown(s.Intro) + "\n\n")
		}
		fmt.Fprintf(&sb, "**%s**\n\n", s.Prompt())

		for _, c := range s.Choices {
			o := c.Outcome
			fmt.Fprintf(&sb, "### %d. %s\n\n", c.ID, c.Title)
			if c.Subtitle != "" {
				fmt.Fprintf(&sb, "%s\n\n", richtext.ToMarkdown(c.Subtitle))
			}
			fmt.Fprintf(&sb, "> %s **%s**\n", categoryEmoji(o.Category()), richtext.Plain(o.Result))
			if o.Clarification != "" {
				fmt.Fprintf(&sb, ">\n> %s\n", strings.ReplaceAll(richtext.ToMarkdown(o.Clarification), "\n", "\n> "))
			}
			sb.WriteString("\n")
			if len(o.KeyTakeaways) > 0 {
				sb.WriteString("**Key takeaways**\n\n")
				for _, t := range o.KeyTakeaways {
					fmt.Fprintf(&sb, "- %s\n", richtext.ToMarkdown(t))
				}
				sb.WriteString("\n")
			}
		}
		sb.WriteString("---\n\n")
	}

	return sb.String()
}

// SaveMarkdownGuide writes RenderMarkdownGuide output to path.
func SaveMarkdownGuide(cat *catalog.Catalog, title, path string) error {
	defer metrics.Timer(metrics.Export)()

	if cat.Len() == 0 {
		return fmt.Errorf("no scenarios to export")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return os.WriteFile(path, []byte(RenderMarkdownGuide(cat, title)), 0o644)
}

func scenarioHeading(s model.Scenario) string {
	return fmt.Sprintf("Scenario %d: %s", s.ID, s.Title)
}

func categoryEmoji(c model.Category) string {
	switch c {
	case model.CategoryPositive:
		return "🟢"
	case model.CategoryNegative:
		return "🔴"
	case model.CategoryWarning:
		return "🟠"
	default:
		return "⚪"
	}
}

func uniqueSlug(base string, counts map[string]int) string {
	if base == "" {
		base = "section"
	}
	if count, ok := counts[base]; ok {
		count++
		counts[base] = count
		return fmt.Sprintf("%s-%d", base, count)
	}
	counts[base] = 0
	return base
}

// createSlug creates a URL-friendly slug from heading text.
func createSlug(text string) string {
	slug := strings.ToLower(text)
	slug = slugNonAlphanumericRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
