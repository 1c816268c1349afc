package dlc

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/place"
)

func newTestEngine(t *testing.T) (*Engine, *place.Engine) {
	t.Helper()
	root := t.TempDir()
	luaDir := filepath.Join(root, "stplug-in")
	manifestDir := filepath.Join(root, "depotcache")
	statsDir := filepath.Join(root, "StatsExport")
	for _, dir := range []string{luaDir, manifestDir, statsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	placer := place.NewEngine(luaDir, manifestDir, statsDir)
	return NewEngine(placer), placer
}

func writeDescriptor(t *testing.T, placer *place.Engine, id model.TitleID, content string) {
	t.Helper()
	if err := placer.WriteDescriptor(id, []byte(content)); err != nil {
		t.Fatalf("WriteDescriptor: %v", err)
	}
}

func readDescriptor(t *testing.T, placer *place.Engine, id model.TitleID) string {
	t.Helper()
	data, err := placer.ReadDescriptor(id)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	return string(data)
}

func TestCurrentDLCs(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, strings.Join([]string{
		"addappid(440)",
		`setManifestid(228990, "1234", 0)`,
		"addappid(441)",
		"addappid( 443 )",
		"addappid(441)",
		"",
	}, "\n"))

	dlcs, err := engine.CurrentDLCs(440)
	if err != nil {
		t.Fatalf("CurrentDLCs returned error: %v", err)
	}
	if !reflect.DeepEqual(dlcs, []model.TitleID{441, 443}) {
		t.Errorf("CurrentDLCs = %v, expected [441 443]", dlcs)
	}
}

func TestCurrentDLCsMissingDescriptor(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.CurrentDLCs(440); !errors.Is(err, ErrDescriptorUnreadable) {
		t.Errorf("CurrentDLCs = %v, expected ErrDescriptorUnreadable", err)
	}
}

func TestSyncReplacesMembership(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, strings.Join([]string{
		"addappid(440)",
		`setManifestid(228990, "1234", 0)`,
		"addappid(441)",
		"addappid(443)",
		"",
	}, "\n"))

	result, err := engine.Sync(440, []model.TitleID{441, 442})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Added, []model.TitleID{442}) {
		t.Errorf("Added = %v, expected [442]", result.Added)
	}
	if !reflect.DeepEqual(result.Removed, []model.TitleID{443}) {
		t.Errorf("Removed = %v, expected [443]", result.Removed)
	}

	content := readDescriptor(t, placer, 440)
	if !strings.Contains(content, "addappid(440)") {
		t.Error("main title line was stripped")
	}
	if !strings.Contains(content, `setManifestid(228990, "1234", 0)`) {
		t.Error("setManifestid line was stripped")
	}
	if strings.Contains(content, "addappid(443)") {
		t.Error("removed DLC still present")
	}
	if !strings.Contains(content, SyncMarker) {
		t.Error("sync marker missing")
	}
	if !strings.Contains(content, "addappid(441)\naddappid(442)\n") {
		t.Errorf("target set not appended sorted:\n%s", content)
	}
}

func TestSyncIdempotent(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, "addappid(440)\naddappid(441)\n")

	target := []model.TitleID{441, 442}
	if _, err := engine.Sync(440, target); err != nil {
		t.Fatalf("first Sync returned error: %v", err)
	}
	first := readDescriptor(t, placer, 440)

	result, err := engine.Sync(440, target)
	if err != nil {
		t.Fatalf("second Sync returned error: %v", err)
	}
	second := readDescriptor(t, placer, 440)

	if first != second {
		t.Errorf("repeated sync changed the file:\n--- first ---\n%s\n--- second ---\n%s", first, second)
	}
	if len(result.Added) != 0 || len(result.Removed) != 0 {
		t.Errorf("second sync diff = %+v, expected empty", result)
	}
}

func TestSyncEmptyTargetClearsMembership(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, "addappid(440)\naddappid(441)\naddappid(442)\n")

	result, err := engine.Sync(440, nil)
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Removed, []model.TitleID{441, 442}) {
		t.Errorf("Removed = %v, expected [441 442]", result.Removed)
	}

	content := readDescriptor(t, placer, 440)
	if strings.Contains(content, "addappid(441)") || strings.Contains(content, "addappid(442)") {
		t.Errorf("DLC lines still present:\n%s", content)
	}
	if strings.Contains(content, SyncMarker) {
		t.Error("sync marker present for an empty target set")
	}
}

func TestSyncIgnoresMainIDInTarget(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, "addappid(440)\n")

	result, err := engine.Sync(440, []model.TitleID{440, 441})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Added, []model.TitleID{441}) {
		t.Errorf("Added = %v, expected [441]", result.Added)
	}

	content := readDescriptor(t, placer, 440)
	if strings.Count(content, "addappid(440)") != 1 {
		t.Errorf("main title enabled more than once:\n%s", content)
	}
}

func TestSyncMissingDescriptor(t *testing.T) {
	engine, _ := newTestEngine(t)
	if _, err := engine.Sync(440, []model.TitleID{441}); !errors.Is(err, ErrDescriptorUnreadable) {
		t.Errorf("Sync = %v, expected ErrDescriptorUnreadable", err)
	}
}

func TestApplyManifestIDs(t *testing.T) {
	engine, placer := newTestEngine(t)
	writeDescriptor(t, placer, 440, strings.Join([]string{
		"addappid(440)",
		`setManifestid(228990, "1111", 0)`,
		`setManifestid(228991, "2222", 0)`,
		"",
	}, "\n"))

	updated, appended, err := engine.ApplyManifestIDs(440, map[uint32]string{
		228990: "9999", // changed
		228991: "2222", // unchanged
		228992: "3333", // new depot
	})
	if err != nil {
		t.Fatalf("ApplyManifestIDs returned error: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, expected 1", updated)
	}
	if appended != 1 {
		t.Errorf("appended = %d, expected 1", appended)
	}

	content := readDescriptor(t, placer, 440)
	if !strings.Contains(content, `setManifestid(228990, "9999", 0)`) {
		t.Error("changed depot not rewritten")
	}
	if !strings.Contains(content, `setManifestid(228991, "2222", 0)`) {
		t.Error("unchanged depot was altered")
	}
	if !strings.Contains(content, UpdateMarker) {
		t.Error("update marker missing")
	}
	if !strings.Contains(content, `setManifestid(228992, "3333", 0)`) {
		t.Error("new depot not appended")
	}
}

func TestApplyManifestIDsNoChanges(t *testing.T) {
	engine, placer := newTestEngine(t)
	original := "addappid(440)\nsetManifestid(228990, \"1111\", 0)\n"
	writeDescriptor(t, placer, 440, original)

	updated, appended, err := engine.ApplyManifestIDs(440, map[uint32]string{228990: "1111"})
	if err != nil {
		t.Fatalf("ApplyManifestIDs returned error: %v", err)
	}
	if updated != 0 || appended != 0 {
		t.Errorf("updated=%d appended=%d, expected 0/0", updated, appended)
	}
	if content := readDescriptor(t, placer, 440); content != original {
		t.Errorf("descriptor rewritten without changes:\n%s", content)
	}
}
