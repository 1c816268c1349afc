// Package library maintains the authoritative in-memory view of the
// titles present in the managed directories.
package library

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/place"
)

// NameResolver looks up display names for titles. Implementations may
// return the AppID placeholder when the name is unknown.
type NameResolver interface {
	NameByID(id model.TitleID) string
}

// Indexer owns the library model. Other components receive read-only
// snapshots; all mutation happens through Rescan, ApplyUpdate and
// Remove.
//
// Locking: Indexer.mu guards the entries map and the rescan sequence.
// Methods never call back into the resolver while holding mu; name
// resolution runs in the background and merges results by AppID.
type Indexer struct {
	mu      sync.RWMutex
	entries map[model.TitleID]*model.LibraryEntry

	placer   *place.Engine
	resolver NameResolver
	onChange func() // optional, invoked after background name merges
}

// NewIndexer creates an indexer over the placement engine's
// directories. resolver may be nil; names then stay placeholders.
func NewIndexer(placer *place.Engine, resolver NameResolver) *Indexer {
	return &Indexer{
		entries:  make(map[model.TitleID]*model.LibraryEntry),
		placer:   placer,
		resolver: resolver,
	}
}

// SetChangeCallback sets the callback invoked when background name
// resolution changes entries after a rescan has returned.
func (x *Indexer) SetChangeCallback(callback func()) {
	x.onChange = callback
}

// Rescan lists both managed directories and rebuilds the library
// model. A title with only one of its two files is kept and reported
// as-is. Known display names survive the rebuild; unknown ones get the
// placeholder and are resolved in the background.
func (x *Indexer) Rescan() ([]model.LibraryEntry, error) {
	luaIDs, err := scanDir(x.placer.LuaDir(), model.ArtifactUnlockDescriptor.Extension())
	if err != nil {
		return nil, err
	}
	manifestIDs, err := scanDir(x.placer.ManifestDir(), model.ArtifactManifest.Extension())
	if err != nil {
		return nil, err
	}

	observed := make(map[model.TitleID]*model.LibraryEntry)
	for id := range luaIDs {
		observed[id] = &model.LibraryEntry{AppID: id, HasLua: true}
	}
	for id := range manifestIDs {
		if entry, ok := observed[id]; ok {
			entry.HasManifest = true
		} else {
			observed[id] = &model.LibraryEntry{AppID: id, HasManifest: true}
		}
	}

	x.mu.Lock()
	var unresolved []model.TitleID
	for id, entry := range observed {
		if previous, ok := x.entries[id]; ok && previous.Name != id.PlaceholderName() && previous.Name != "" {
			entry.Name = previous.Name
		} else {
			entry.Name = id.PlaceholderName()
			unresolved = append(unresolved, id)
		}
	}
	x.entries = observed
	x.mu.Unlock()

	if x.resolver != nil && len(unresolved) > 0 {
		go x.resolveNames(unresolved)
	}

	return x.snapshot(), nil
}

// ApplyUpdate folds a successful placement into the model without a
// full rescan. The next Rescan reconciles to the same state.
func (x *Indexer) ApplyUpdate(id model.TitleID, artifacts []model.Artifact, name string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.entries[id]
	if !ok {
		entry = &model.LibraryEntry{AppID: id, Name: id.PlaceholderName()}
		x.entries[id] = entry
	}
	if name != "" {
		entry.Name = name
	}
	for _, a := range artifacts {
		switch a.Kind {
		case model.ArtifactUnlockDescriptor:
			entry.HasLua = true
		case model.ArtifactManifest:
			entry.HasManifest = true
		}
	}
}

// Remove deletes the title's files and drops the entry. File deletion
// is best effort; an entry is dropped even when only some files could
// be removed, since the next rescan reconciles whatever remains.
func (x *Indexer) Remove(id model.TitleID) error {
	result := x.placer.RemoveTitleFiles(id)

	x.mu.Lock()
	delete(x.entries, id)
	x.mu.Unlock()

	if result.Failed() {
		return fmt.Errorf("%s", strings.Join(result.Errors, "; "))
	}
	return nil
}

// Get returns a copy of one entry.
func (x *Indexer) Get(id model.TitleID) (model.LibraryEntry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	entry, ok := x.entries[id]
	if !ok {
		return model.LibraryEntry{}, false
	}
	return *entry, true
}

// Entries returns a sorted snapshot of the library.
func (x *Indexer) Entries() []model.LibraryEntry {
	return x.snapshot()
}

// resolveNames queries display names in the background and merges them
// by AppID: a rescan that ran while the lookup was in flight does not
// lose the resolution, and a resolution never resurrects an entry a
// newer rescan dropped.
func (x *Indexer) resolveNames(ids []model.TitleID) {
	for _, id := range ids {
		name := x.resolver.NameByID(id)
		if name == "" || name == id.PlaceholderName() {
			continue
		}

		x.mu.Lock()
		entry, ok := x.entries[id]
		if ok && entry.Name == id.PlaceholderName() {
			entry.Name = name
		}
		x.mu.Unlock()
	}

	if x.onChange != nil {
		x.onChange()
	}
}

func (x *Indexer) snapshot() []model.LibraryEntry {
	x.mu.RLock()
	entries := make([]model.LibraryEntry, 0, len(x.entries))
	for _, entry := range x.entries {
		entries = append(entries, *entry)
	}
	x.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries
}

// scanDir derives the title identifiers from filenames with the given
// extension. Files whose stem is not a valid AppID are skipped with a
// log line, not treated as corruption.
func scanDir(dir, ext string) (map[model.TitleID]bool, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("Steam directory not found: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("Failed to read directory: %w", err)
	}

	ids := make(map[model.TitleID]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		stem := strings.TrimSuffix(name, ext)
		id, err := model.ParseTitleID(stem)
		if err != nil {
			log.Printf("Skipping %s: %v", name, err)
			continue
		}
		ids[id] = true
	}
	return ids, nil
}
