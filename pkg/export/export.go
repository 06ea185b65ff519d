// Package export turns a scenario catalog into handouts: a Mermaid decision
// map, rendered SVG/PNG maps, a markdown study guide, and a SQLite copy.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/medadventure/internal/datasource"
	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
)

// Format names an export target.
type Format string

const (
	FormatMermaid  Format = "mermaid"
	FormatSVG      Format = "svg"
	FormatPNG      Format = "png"
	FormatMarkdown Format = "markdown"
	FormatSQLite   Format = "sqlite"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatMermaid, FormatSVG, FormatPNG, FormatMarkdown, FormatSQLite}
}

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "sqlite", "db", "sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// FormatForPath infers a format from the output file extension.
func FormatForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format from %q", path)
	}
	return ParseFormat(ext)
}

// ToFile writes cat to path in the given format.
func ToFile(cat *catalog.Catalog, format Format, path, title string) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	switch format {
	case FormatSVG, FormatPNG:
		return SaveDecisionMap(DecisionMapOptions{Path: path, Format: string(format), Title: title, Catalog: cat})
	case FormatMarkdown:
		return SaveMarkdownGuide(cat, title, path)
	case FormatMermaid:
		defer metrics.Timer(metrics.Export)()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
		return os.WriteFile(path, []byte(GenerateMermaid(cat)), 0o644)
	case FormatSQLite:
		defer metrics.Timer(metrics.Export)()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
		return datasource.WriteSQLite(cat, path)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
