// Package keys contains keybinding definitions for the console.
package keys

import "github.com/charmbracelet/bubbles/key"

// Console holds keys with a fixed meaning outside the chord table.
// Letters are not listed here; they are forwarded to the disambiguator.
var Console = struct {
	Quit      key.Binding
	History   key.Binding
	Backspace key.Binding
	Enter     key.Binding
	Interrupt key.Binding
}{
	Quit: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "quit"),
	),
	History: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "marker history"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("backspace", "ignored"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "ignored"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

// Prompt holds keys active while a label prompt is open.
var Prompt = struct {
	Submit  key.Binding
	Cancel  key.Binding
	Accept  key.Binding
	NextSug key.Binding
	PrevSug key.Binding
}{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit label"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "no label"),
	),
	Accept: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "accept suggestion"),
	),
	NextSug: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next suggestion"),
	),
	PrevSug: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous suggestion"),
	),
}

// ShortHelp returns the bindings shown in the console footer.
func ShortHelp(prompting bool) []key.Binding {
	if prompting {
		return []key.Binding{Prompt.Submit, Prompt.Cancel, Prompt.Accept}
	}
	return []key.Binding{Console.Quit, Console.History}
}
