// Package dlc keeps a title's unlock descriptor in sync with its
// desired DLC membership and manifest ids.
package dlc

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/place"
)

// Descriptor line patterns
var (
	addAppIDRe      = regexp.MustCompile(`addappid\s*\(\s*(\d+)\s*\)`)
	setManifestIDRe = regexp.MustCompile(`setManifestid\s*\(\s*(\d+)\s*,\s*"(\d+)"\s*,\s*0\s*\)`)
)

// Markers appended before generated descriptor sections
const (
	SyncMarker   = "-- DLCs Synced by Oracle --"
	UpdateMarker = "-- Appended by Oracle Updater --"
)

// ErrDescriptorUnreadable is returned when a title has no readable
// unlock descriptor; DLCs cannot be attached to a title with nothing
// to attach to.
var ErrDescriptorUnreadable = errors.New("descriptor unreadable")

// SyncResult is the membership diff one Sync call applied.
type SyncResult struct {
	Added   []model.TitleID `json:"added"`
	Removed []model.TitleID `json:"removed"`
}

// Engine rewrites unlock descriptors through the placement engine's
// file primitives.
type Engine struct {
	placer *place.Engine
}

// NewEngine creates a DLC sync engine.
func NewEngine(placer *place.Engine) *Engine {
	return &Engine{placer: placer}
}

// CurrentDLCs parses the DLC AppIDs currently enabled in a title's
// descriptor, excluding the main title itself.
func (e *Engine) CurrentDLCs(mainID model.TitleID) ([]model.TitleID, error) {
	content, err := e.readDescriptor(mainID)
	if err != nil {
		return nil, err
	}

	var dlcs []model.TitleID
	seen := make(map[model.TitleID]bool)
	for _, caps := range addAppIDRe.FindAllStringSubmatch(content, -1) {
		id, err := model.ParseTitleID(caps[1])
		if err != nil || id == mainID || seen[id] {
			continue
		}
		seen[id] = true
		dlcs = append(dlcs, id)
	}
	return dlcs, nil
}

// Sync rewrites the descriptor so its DLC membership equals exactly
// the target set. This is a set replacement, not an incremental
// add/remove sequence: lines enabling other AppIDs and any previous
// sync marker are stripped, then the sorted target set is appended.
// Applying the same target twice yields identical file content and an
// empty diff on the second call.
func (e *Engine) Sync(mainID model.TitleID, target []model.TitleID) (SyncResult, error) {
	content, err := e.readDescriptor(mainID)
	if err != nil {
		return SyncResult{}, err
	}

	current, err := e.CurrentDLCs(mainID)
	if err != nil {
		return SyncResult{}, err
	}

	targetSet := make(map[model.TitleID]bool, len(target))
	for _, id := range target {
		if id != mainID {
			targetSet[id] = true
		}
	}
	currentSet := make(map[model.TitleID]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	result := SyncResult{}
	for id := range targetSet {
		if !currentSet[id] {
			result.Added = append(result.Added, id)
		}
	}
	for id := range currentSet {
		if !targetSet[id] {
			result.Removed = append(result.Removed, id)
		}
	}
	sortIDs(result.Added)
	sortIDs(result.Removed)

	rewritten := rewriteMembership(content, mainID, targetSet)
	if err := e.placer.WriteDescriptor(mainID, []byte(rewritten)); err != nil {
		return SyncResult{}, err
	}
	return result, nil
}

// ApplyManifestIDs rewrites setManifestid calls with the given
// depot-to-manifest mapping and appends lines for depots the
// descriptor does not mention yet. The file is only rewritten when
// something changed.
func (e *Engine) ApplyManifestIDs(mainID model.TitleID, manifests map[uint32]string) (updated, appended int, err error) {
	content, err := e.readDescriptor(mainID)
	if err != nil {
		return 0, 0, err
	}

	processed := make(map[uint32]bool)
	rewritten := setManifestIDRe.ReplaceAllStringFunc(content, func(match string) string {
		caps := setManifestIDRe.FindStringSubmatch(match)
		depot64, parseErr := strconv.ParseUint(caps[1], 10, 32)
		if parseErr != nil {
			return match
		}
		depot := uint32(depot64)
		processed[depot] = true

		next, ok := manifests[depot]
		if !ok || next == caps[2] {
			return match
		}
		updated++
		return fmt.Sprintf(`setManifestid(%d, "%s", 0)`, depot, next)
	})

	depots := make([]uint32, 0, len(manifests))
	for depot := range manifests {
		if !processed[depot] {
			depots = append(depots, depot)
		}
	}
	sort.Slice(depots, func(i, j int) bool { return depots[i] < depots[j] })

	if len(depots) > 0 {
		var b strings.Builder
		b.WriteString(rewritten)
		if !strings.HasSuffix(rewritten, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(UpdateMarker + "\n")
		for _, depot := range depots {
			fmt.Fprintf(&b, "setManifestid(%d, %q, 0)\n", depot, manifests[depot])
			appended++
		}
		rewritten = b.String()
	}

	if updated == 0 && appended == 0 {
		return 0, 0, nil
	}
	if err := e.placer.WriteDescriptor(mainID, []byte(rewritten)); err != nil {
		return 0, 0, err
	}
	return updated, appended, nil
}

func (e *Engine) readDescriptor(mainID model.TitleID) (string, error) {
	data, err := e.placer.ReadDescriptor(mainID)
	if err != nil {
		return "", fmt.Errorf("%w (AppID %d): %v", ErrDescriptorUnreadable, mainID, err)
	}
	return string(data), nil
}

// rewriteMembership strips every addappid line for an AppID other than
// the main title, drops previous sync markers and trailing blank
// lines, then appends the target set sorted. Keeping the rewrite
// canonical is what makes repeated syncs byte-stable.
func rewriteMembership(content string, mainID model.TitleID, target map[model.TitleID]bool) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == SyncMarker {
			continue
		}
		if caps := addAppIDRe.FindStringSubmatch(line); caps != nil && caps[1] != mainID.String() {
			continue
		}
		kept = append(kept, line)
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	var b strings.Builder
	b.WriteString(strings.Join(kept, "\n"))
	b.WriteString("\n")
	if len(target) > 0 {
		ids := make([]model.TitleID, 0, len(target))
		for id := range target {
			ids = append(ids, id)
		}
		sortIDs(ids)

		b.WriteString("\n" + SyncMarker + "\n")
		for _, id := range ids {
			fmt.Fprintf(&b, "addappid(%d)\n", id)
		}
	}
	return b.String()
}

func sortIDs(ids []model.TitleID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
