// Package config manages persisted application settings and the fixed
// Steam directory layout the engine writes into.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oracleapp/oracle/internal/model"
)

// Settings file name inside the config directory
const SettingsFileName = "settings.json"

// Subdirectories of the Steam config root managed by the engine
const (
	LuaSubdir      = "stplug-in"
	ManifestSubdir = "depotcache"
	StatsSubdir    = "StatsExport"
)

// Default values
const (
	DefaultDownloadDirectory = "downloads"
)

// SourceConfig is one configured candidate repository.
type SourceConfig struct {
	Repo     string `json:"repo"`
	Kind     string `json:"kind"`
	Priority int    `json:"priority"`
}

// Settings is the persisted configuration object.
type Settings struct {
	DownloadDirectory string          `json:"download_directory"`
	SteamConfigRoot   string          `json:"steam_config_root,omitempty"`
	Sources           []SourceConfig  `json:"sources,omitempty"`
	SavedAccounts     []model.Account `json:"saved_accounts,omitempty"`
}

// DefaultSources returns the built-in candidate repositories in
// priority order.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{Repo: "Fairyvmos/bruh-hub", Kind: string(model.SourceKindBranch), Priority: 0},
		{Repo: "SteamAutoCracks/ManifestHub", Kind: string(model.SourceKindBranch), Priority: 1},
		{Repo: "ManifestHub/ManifestHub", Kind: string(model.SourceKindDecrypted), Priority: 2},
	}
}

// CandidateSources maps the configured sources to resolver input.
func (s *Settings) CandidateSources() []model.CandidateSource {
	candidates := make([]model.CandidateSource, 0, len(s.Sources))
	for _, src := range s.Sources {
		candidates = append(candidates, model.CandidateSource{
			ID:       src.Repo,
			Repo:     src.Repo,
			Kind:     model.SourceKind(src.Kind),
			Priority: src.Priority,
		})
	}
	return candidates
}

// LuaDir returns the unlock descriptor directory.
func (s *Settings) LuaDir() string {
	return filepath.Join(s.SteamConfigRoot, LuaSubdir)
}

// ManifestDir returns the depot manifest directory.
func (s *Settings) ManifestDir() string {
	return filepath.Join(s.SteamConfigRoot, ManifestSubdir)
}

// StatsDir returns the stats export directory.
func (s *Settings) StatsDir() string {
	return filepath.Join(s.SteamConfigRoot, StatsSubdir)
}

// Manager loads and saves settings in a directory.
type Manager struct {
	dir string
}

// NewManager creates a settings manager rooted at dir. When dir is
// empty the user config directory is used.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config directory: %w", err)
		}
		dir = filepath.Join(base, "oracle")
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the settings directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the settings file path.
func (m *Manager) Path() string {
	return filepath.Join(m.dir, SettingsFileName)
}

// Load reads settings from disk, applying defaults for missing values.
// A missing file yields pure defaults, not an error.
func (m *Manager) Load() (*Settings, error) {
	settings := &Settings{}

	data, err := os.ReadFile(m.Path())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
	case os.IsNotExist(err):
		// First run, fall through to defaults
	default:
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	m.applyDefaults(settings)
	return settings, nil
}

// Save writes settings to disk, creating the settings directory when
// needed.
func (m *Manager) Save(settings *Settings) error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	if err := os.WriteFile(m.Path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func (m *Manager) applyDefaults(settings *Settings) {
	if settings.DownloadDirectory == "" {
		settings.DownloadDirectory = DefaultDownloadDirectory
	}
	if len(settings.Sources) == 0 {
		settings.Sources = DefaultSources()
	}
	if settings.SteamConfigRoot == "" {
		if root, err := FindSteamConfigRoot(); err == nil {
			settings.SteamConfigRoot = root
		}
	}
}
