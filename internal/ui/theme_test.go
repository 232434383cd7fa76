package ui

import (
	"testing"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Dracula"); got != "Nightfox" {
		t.Fatalf("NextTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope).Name = %q, want Nightfox", got)
	}
}

func TestThemesCoverEveryState(t *testing.T) {
	states := []string{
		"NotStreaming", "Streaming", "StreamEnding",
		"Normal", "Restarting", "ShuttingDown", "Suspending",
		"Offline",
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, s := range states {
			if th.StateColors[s] == "" {
				t.Fatalf("theme %s has no color for %s", name, s)
			}
		}
	}
}
