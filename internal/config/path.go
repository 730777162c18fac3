// Package config loads and validates cabdesk settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the config directory and the environment prefix.
const AppName = "cabdesk"

// ConfigDir returns $HOME/.config/cabdesk.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// ExpandPath resolves a leading ~ and $VAR references, so log paths in the
// config file can point under the user's home.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return os.ExpandEnv(path)
}
