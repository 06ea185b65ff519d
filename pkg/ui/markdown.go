package ui

import (
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/medadventure/pkg/debug"
)

// MarkdownRenderer wraps a glamour renderer that is rebuilt when the wrap
// width changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	width    int
	dark     bool
	renderer *glamour.TermRenderer
}

// NewMarkdownRendererWithTheme creates a renderer wrapping at width, styled
// for the theme's background.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	r := &MarkdownRenderer{}
	r.SetWidthWithTheme(width, theme)
	return r
}

// SetWidthWithTheme rebuilds the renderer if the width or background
// changed.
func (r *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width < 20 {
		width = 20
	}
	dark := theme.Renderer == nil || theme.Renderer.HasDarkBackground()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer != nil && r.width == width && r.dark == dark {
		return
	}

	style := "light"
	if dark {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Log("markdown: renderer init failed: %v", err)
		r.renderer = nil
		return
	}
	r.renderer, r.width, r.dark = tr, width, dark
}

// Render renders markdown. Without a working renderer the source is
// returned unchanged.
func (r *MarkdownRenderer) Render(md string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer == nil {
		return md, nil
	}
	return r.renderer.Render(md)
}
