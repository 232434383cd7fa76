package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding

	// Host actions
	EndStream         key.Binding
	CloseSteam        key.Binding
	RestoreResolution key.Binding
	LoadApps          key.Binding

	// App list scrolling
	Up   key.Binding
	Down key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?", "h"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh now"),
		),

		EndStream: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "End stream"),
		),
		CloseSteam: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Close Steam"),
		),
		RestoreResolution: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "Restore resolution"),
		),
		LoadApps: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Load app names"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll apps up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll apps down"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EndStream, k.CloseSteam, k.RestoreResolution, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.EndStream, k.CloseSteam, k.RestoreResolution},
		{k.LoadApps, k.Up, k.Down},
		{k.Refresh, k.CycleTheme, k.Help, k.Quit},
	}
}
