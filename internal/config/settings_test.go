package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oracleapp/oracle/internal/model"
)

func TestLoadDefaultsOnMissingFile(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	settings, err := manager.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if settings.DownloadDirectory != DefaultDownloadDirectory {
		t.Errorf("DownloadDirectory = %q, expected %q", settings.DownloadDirectory, DefaultDownloadDirectory)
	}
	if len(settings.Sources) != 3 {
		t.Errorf("got %d default sources, expected 3", len(settings.Sources))
	}
	if settings.Sources[0].Repo != "Fairyvmos/bruh-hub" {
		t.Errorf("first source = %q, expected %q", settings.Sources[0].Repo, "Fairyvmos/bruh-hub")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	saved := &Settings{
		DownloadDirectory: "/tmp/dl",
		SteamConfigRoot:   "/opt/steam/config",
		Sources: []SourceConfig{
			{Repo: "custom/repo", Kind: string(model.SourceKindBranch), Priority: 0},
		},
	}
	if err := manager.Save(saved); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.DownloadDirectory != "/tmp/dl" {
		t.Errorf("DownloadDirectory = %q, expected %q", loaded.DownloadDirectory, "/tmp/dl")
	}
	if loaded.SteamConfigRoot != "/opt/steam/config" {
		t.Errorf("SteamConfigRoot = %q, expected %q", loaded.SteamConfigRoot, "/opt/steam/config")
	}
	if len(loaded.Sources) != 1 || loaded.Sources[0].Repo != "custom/repo" {
		t.Errorf("Sources = %v, expected the saved custom source", loaded.Sources)
	}
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}
	if err := os.WriteFile(manager.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing corrupt settings: %v", err)
	}

	if _, err := manager.Load(); err == nil {
		t.Error("Load returned nil error for a corrupt settings file")
	}
}

func TestDirectoryHelpers(t *testing.T) {
	settings := &Settings{SteamConfigRoot: filepath.Join("root", "config")}

	tests := []struct {
		got      string
		expected string
	}{
		{settings.LuaDir(), filepath.Join("root", "config", "stplug-in")},
		{settings.ManifestDir(), filepath.Join("root", "config", "depotcache")},
		{settings.StatsDir(), filepath.Join("root", "config", "StatsExport")},
	}
	for _, test := range tests {
		if test.got != test.expected {
			t.Errorf("directory = %q, expected %q", test.got, test.expected)
		}
	}
}

func TestCandidateSources(t *testing.T) {
	settings := &Settings{Sources: DefaultSources()}
	candidates := settings.CandidateSources()

	if len(candidates) != 3 {
		t.Fatalf("got %d candidates, expected 3", len(candidates))
	}
	for i, candidate := range candidates {
		if candidate.Priority != i {
			t.Errorf("candidate %d priority = %d, expected %d", i, candidate.Priority, i)
		}
	}
	if candidates[2].Kind != model.SourceKindDecrypted {
		t.Errorf("third candidate kind = %s, expected decrypted", candidates[2].Kind)
	}
}

func TestFindSteamConfigRootEnvOverride(t *testing.T) {
	t.Setenv(EnvSteamConfigRoot, "/custom/steam/config")

	root, err := FindSteamConfigRoot()
	if err != nil {
		t.Fatalf("FindSteamConfigRoot returned error: %v", err)
	}
	if root != "/custom/steam/config" {
		t.Errorf("root = %q, expected the environment override", root)
	}
}
