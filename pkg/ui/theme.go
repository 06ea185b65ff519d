package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/medadventure/pkg/model"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Brand     lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	// Outcome categories
	Positive lipgloss.AdaptiveColor
	Negative lipgloss.AdaptiveColor
	Warning  lipgloss.AdaptiveColor
	Neutral  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Tagline  lipgloss.Style

	// Pre-computed styles shared by the delegate and page renderers.
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	AccentBold    lipgloss.Style
	SectionLabel  lipgloss.Style
	Check         lipgloss.Style
}

// DefaultTheme returns the navy-and-gold theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Brand:     lipgloss.AdaptiveColor{Light: "#273469", Dark: "#273469"}, // Navy
		Accent:    lipgloss.AdaptiveColor{Light: "#9A6B00", Dark: "#FFC425"}, // Gold (darker on light)
		Primary:   lipgloss.AdaptiveColor{Light: "#273469", Dark: "#8FA3F0"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},

		Positive: ColorSuccess,
		Negative: ColorDanger,
		Warning:  ColorWarning,
		Neutral:  ColorPrimary,

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Accent).
		PaddingLeft(1)

	t.Header = r.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.Tagline = r.NewStyle().Foreground(t.Subtext)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.AccentBold = r.NewStyle().Foreground(t.Accent).Bold(true)
	t.SectionLabel = r.NewStyle().Foreground(t.Subtext).Bold(true)
	t.Check = r.NewStyle().Foreground(t.Positive).Bold(true)

	return t
}

// ThemeFor builds the theme for a configured mode: "dark", "light" or
// anything else for terminal auto-detection.
func ThemeFor(mode string) Theme {
	r := lipgloss.NewRenderer(os.Stdout)
	switch mode {
	case "dark":
		r.SetHasDarkBackground(true)
	case "light":
		r.SetHasDarkBackground(false)
	}
	return DefaultTheme(r)
}

// CategoryColor returns the accent for an outcome category.
func (t Theme) CategoryColor(c model.Category) lipgloss.AdaptiveColor {
	switch c {
	case model.CategoryPositive:
		return t.Positive
	case model.CategoryNegative:
		return t.Negative
	case model.CategoryWarning:
		return t.Warning
	default:
		return t.Neutral
	}
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
