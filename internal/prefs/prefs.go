// Package prefs handles buddyctl user preferences persistence.
// Preferences are stored in ~/.config/buddyctl/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/buddyctl/internal/config"
)

// Prefs holds user preferences for buddyctl.
type Prefs struct {
	// ClientID identifies this machine to Buddy. Generated on first use.
	ClientID string `toml:"client_id"`
	Theme    string `toml:"theme"`
}

const (
	defaultPrefsPath = "~/.config/buddyctl/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	prefs := Prefs{Theme: defaultTheme}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{Theme: defaultTheme}, nil // Graceful degradation
	}

	prefs.ClientID = strings.TrimSpace(prefs.ClientID)
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	// The client id doubles as the pairing credential.
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// EnsureClientID returns the persisted client id, generating and saving a
// new one when none exists yet.
func EnsureClientID(path string) (string, error) {
	p, _ := Load(path)
	if p.ClientID != "" {
		return p.ClientID, nil
	}
	p.ClientID = uuid.NewString()
	if err := Save(path, p); err != nil {
		return "", fmt.Errorf("persist client id: %w", err)
	}
	return p.ClientID, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return config.ExpandPath(defaultPrefsPath)
	}
	return config.ExpandPath(path)
}
