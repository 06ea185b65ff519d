package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
)

// GenerateMermaid renders the catalog as a left-to-right Mermaid flowchart:
// scenario -> choice -> outcome, outcomes classed by category, and dashed
// "next" edges between consecutive scenarios.
func GenerateMermaid(cat *catalog.Catalog) string {
	var sb strings.Builder

	sb.WriteString("graph LR\n")

	sb.WriteString("    classDef scenario fill:#273469,stroke:#333,color:#fff\n")
	sb.WriteString("    classDef choice fill:#FFC425,stroke:#333,color:#000\n")
	sb.WriteString("    classDef positive fill:#50FA7B,stroke:#333,color:#000\n")
	sb.WriteString("    classDef negative fill:#FF5555,stroke:#333,color:#000\n")
	sb.WriteString("    classDef warning fill:#FFB86C,stroke:#333,color:#000\n")
	sb.WriteString("    classDef neutral fill:#6272A4,stroke:#333,color:#fff\n")
	sb.WriteString("\n")

	scenarios := cat.Scenarios()
	for _, s := range scenarios {
		sid := mermaidScenarioID(s.ID)
		fmt.Fprintf(&sb, "    %s[\"%d. %s\"]\n", sid, s.ID, sanitizeMermaidText(s.Title))
		fmt.Fprintf(&sb, "    class %s scenario\n", sid)

		for _, c := range s.Choices {
			cid := fmt.Sprintf("%s_c%d", sid, c.ID)
			oid := cid + "_o"
			fmt.Fprintf(&sb, "    %s([\"%s\"])\n", cid, sanitizeMermaidText(c.Title))
			fmt.Fprintf(&sb, "    %s{{\"%s\"}}\n", oid, sanitizeMermaidText(c.Outcome.Result))
			fmt.Fprintf(&sb, "    class %s choice\n", cid)
			fmt.Fprintf(&sb, "    class %s %s\n", oid, c.Outcome.Category())
			fmt.Fprintf(&sb, "    %s --> %s --> %s\n", sid, cid, oid)
		}
		sb.WriteString("\n")
	}

	for i := 1; i < len(scenarios); i++ {
		fmt.Fprintf(&sb, "    %s -.->|next| %s\n", mermaidScenarioID(scenarios[i-1].ID), mermaidScenarioID(scenarios[i].ID))
	}

	return sb.String()
}

func mermaidScenarioID(id int) string {
	return sanitizeMermaidID(fmt.Sprintf("s%d", id))
}

// sanitizeMermaidID keeps letters, digits, hyphens and underscores.
func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "node"
	}
	return sb.String()
}

// sanitizeMermaidText prepares text for use in a node label.
func sanitizeMermaidText(text string) string {
	replacer := strings.NewReplacer(
		"\"", "'",
		"[", "(",
		"]", ")",
		"{", "(",
		"}", ")",
		"<", "&lt;",
		">", "&gt;",
		"|", "/",
		"`", "'",
		"\n", " ",
		"\r", "",
	)
	result := replacer.Replace(text)

	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)

	result = strings.TrimSpace(result)

	runes := []rune(result)
	if len(runes) > 48 {
		result = string(runes[:45]) + "..."
	}
	return result
}
