package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EnvSteamConfigRoot overrides Steam config root auto-discovery.
const EnvSteamConfigRoot = "ORACLE_STEAM_CONFIG"

// FindSteamConfigRoot locates the Steam config directory for the
// current platform. The environment override wins; otherwise common
// install locations are probed.
func FindSteamConfigRoot() (string, error) {
	if env := os.Getenv(EnvSteamConfigRoot); env != "" {
		return env, nil
	}

	for _, candidate := range steamConfigCandidates() {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("Steam config directory not found: set it manually in the settings")
}

func steamConfigCandidates() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			`C:\Program Files (x86)\Steam\config`,
			`C:\Program Files\Steam\config`,
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{
			filepath.Join(home, "Library", "Application Support", "Steam", "config"),
		}
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam", "steam", "config"),
			filepath.Join(home, ".local", "share", "Steam", "config"),
		}
	}
}
