// Package place writes validated artifacts into the fixed destination
// directories with a crash-safe write-then-rename discipline, and owns
// all low-level file access to the managed layout.
package place

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/oracleapp/oracle/internal/model"
)

// File permissions
const (
	FilePermissions = 0o644
)

// ErrDestinationMissing is returned when a destination directory does
// not exist. The engine never creates destination directories; whether
// to create them is a configuration decision.
var ErrDestinationMissing = errors.New("destination directory missing")

// Engine places artifacts into the managed directory triple.
type Engine struct {
	luaDir      string
	manifestDir string
	statsDir    string
}

// NewEngine creates a placement engine over the three destination
// directories.
func NewEngine(luaDir, manifestDir, statsDir string) *Engine {
	return &Engine{
		luaDir:      luaDir,
		manifestDir: manifestDir,
		statsDir:    statsDir,
	}
}

// LuaDir returns the unlock descriptor directory.
func (e *Engine) LuaDir() string { return e.luaDir }

// ManifestDir returns the depot manifest directory.
func (e *Engine) ManifestDir() string { return e.manifestDir }

// StatsDir returns the stats export directory.
func (e *Engine) StatsDir() string { return e.statsDir }

// CheckDirectories reports which destination directories exist.
func (e *Engine) CheckDirectories() model.DirectoryStatus {
	return model.DirectoryStatus{
		Lua:      dirExists(e.luaDir),
		Manifest: dirExists(e.manifestDir),
	}
}

// Place writes every artifact to its fixed destination path. Each file
// is written to a temporary name in the destination directory and then
// renamed, so a final path is either fully present or absent. The
// destination directory for every artifact kind present must already
// exist, checked up front so a title is not half-placed because of a
// missing directory discovered midway.
func (e *Engine) Place(artifacts []model.Artifact, id model.TitleID) error {
	for _, a := range artifacts {
		dir := e.destinationFor(a.Kind)
		if !dirExists(dir) {
			return fmt.Errorf("%w: %s", ErrDestinationMissing, dir)
		}
	}

	for _, a := range artifacts {
		dir := e.destinationFor(a.Kind)
		final := filepath.Join(dir, id.String()+a.Kind.Extension())
		if err := writeAtomic(dir, final, a.Data); err != nil {
			return fmt.Errorf("Failed to place %s file: %w", a.Kind, err)
		}
	}
	return nil
}

// RemoveResult reports which of a title's files were deleted.
type RemoveResult struct {
	LuaRemoved      bool
	ManifestRemoved bool
	StatsRemoved    bool
	Errors          []string
}

// Failed reports whether any existing file could not be deleted.
func (r RemoveResult) Failed() bool { return len(r.Errors) > 0 }

// RemoveTitleFiles deletes the title's files from all three
// directories, best effort. Missing files are not errors.
func (e *Engine) RemoveTitleFiles(id model.TitleID) RemoveResult {
	var result RemoveResult

	result.LuaRemoved = removeIfPresent(
		filepath.Join(e.luaDir, id.String()+model.ArtifactUnlockDescriptor.Extension()),
		"Failed to delete LUA file", &result.Errors)
	result.ManifestRemoved = removeIfPresent(
		filepath.Join(e.manifestDir, id.String()+model.ArtifactManifest.Extension()),
		"Failed to delete manifest file", &result.Errors)
	result.StatsRemoved = removeIfPresent(
		filepath.Join(e.statsDir, id.String()+model.ArtifactStatsExport.Extension()),
		"Failed to delete BIN file", &result.Errors)

	return result
}

// DescriptorPath returns the unlock descriptor path for a title.
func (e *Engine) DescriptorPath(id model.TitleID) string {
	return filepath.Join(e.luaDir, id.String()+model.ArtifactUnlockDescriptor.Extension())
}

// ReadDescriptor reads a title's unlock descriptor.
func (e *Engine) ReadDescriptor(id model.TitleID) ([]byte, error) {
	data, err := os.ReadFile(e.DescriptorPath(id))
	if err != nil {
		return nil, fmt.Errorf("Failed to read LUA file: %w", err)
	}
	return data, nil
}

// WriteDescriptor rewrites a title's unlock descriptor through the
// same atomic discipline as placement.
func (e *Engine) WriteDescriptor(id model.TitleID, data []byte) error {
	if !dirExists(e.luaDir) {
		return fmt.Errorf("%w: %s", ErrDestinationMissing, e.luaDir)
	}
	if err := writeAtomic(e.luaDir, e.DescriptorPath(id), data); err != nil {
		return fmt.Errorf("Failed to write LUA file: %w", err)
	}
	return nil
}

func (e *Engine) destinationFor(kind model.ArtifactKind) string {
	switch kind {
	case model.ArtifactUnlockDescriptor:
		return e.luaDir
	case model.ArtifactManifest:
		return e.manifestDir
	case model.ArtifactStatsExport:
		return e.statsDir
	}
	return e.luaDir
}

// writeAtomic writes data to a unique temp file in dir, then renames
// it onto final. The temp file lives in the destination directory so
// the rename stays on one filesystem.
func writeAtomic(dir, final string, data []byte) error {
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, FilePermissions); err != nil {
		return err
	}
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func removeIfPresent(path, errPrefix string, errs *[]string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	if err := os.Remove(path); err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: %v", errPrefix, err))
		return false
	}
	return true
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
