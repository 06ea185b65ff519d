package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/medadventure/pkg/session"
)

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Open         key.Binding
	Choose       key.Binding
	Back         key.Binding
	Next         key.Binding
	Takeaways    key.Binding
	Copy         key.Binding
	Presentation key.Binding
	Help         key.Binding
	Quit         key.Binding

	page session.Page
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Choose: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "choose"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "b"),
			key.WithHelp("esc", "back"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next scenario"),
		),
		Takeaways: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "takeaways"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Presentation: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presentation"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// forPage returns a copy of the keymap whose help lists only what the page
// offers.
func (k keyMap) forPage(p session.Page, hasNext bool) keyMap {
	k.page = p
	k.Next.SetEnabled(p == session.PageOutcome && hasNext)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	switch k.page {
	case session.PageDetail:
		return []key.Binding{k.Up, k.Down, k.Open, k.Choose, k.Back, k.Presentation, k.Quit}
	case session.PageOutcome:
		return []key.Binding{k.Takeaways, k.Back, k.Next, k.Copy, k.Presentation, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Open, k.Presentation, k.Help, k.Quit}
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Choose},
		{k.Back, k.Next, k.Takeaways, k.Copy},
		{k.Presentation, k.Help, k.Quit},
	}
}

var _ help.KeyMap = keyMap{}
