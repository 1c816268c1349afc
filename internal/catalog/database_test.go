package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/oracleapp/oracle/internal/model"
)

func testApps() []AppEntry {
	return []AppEntry{
		{AppID: 440, Name: "Team Fortress 2"},
		{AppID: 441, Name: "Team Fortress 2 Soundtrack"},
		{AppID: 730, Name: "Counter-Strike 2"},
		{AppID: 570, Name: "Dota 2"},
		{AppID: 1000, Name: "Portal 2 Demo"},
	}
}

func TestSearchFiltersNonGames(t *testing.T) {
	db := NewDatabase(t.TempDir())
	db.SetApps(testApps())

	results := db.Search("team fortress", 1, 20)
	if results.Total != 1 {
		t.Fatalf("Total = %d, expected 1 (soundtrack filtered)", results.Total)
	}
	if results.Games[0].AppID != 440 {
		t.Errorf("result = %d, expected 440", results.Games[0].AppID)
	}
	if results.Games[0].IconURL == "" {
		t.Error("result has no header image URL")
	}
}

func TestSearchExplicitNonGameTerm(t *testing.T) {
	db := NewDatabase(t.TempDir())
	db.SetApps(testApps())

	results := db.Search("soundtrack", 1, 20)
	if results.Total != 1 || results.Games[0].AppID != 441 {
		t.Errorf("explicit soundtrack query returned %v, expected AppID 441", results.Games)
	}
}

func TestSearchCommaSeparatedTerms(t *testing.T) {
	db := NewDatabase(t.TempDir())
	db.SetApps(testApps())

	results := db.Search("dota, counter", 1, 20)
	if results.Total != 2 {
		t.Errorf("Total = %d, expected 2 for OR-ed terms", results.Total)
	}
}

func TestSearchPagination(t *testing.T) {
	apps := make([]AppEntry, 0, 25)
	for i := 1; i <= 25; i++ {
		apps = append(apps, AppEntry{AppID: model.TitleID(i), Name: "Fortress Game"})
	}
	db := NewDatabase(t.TempDir())
	db.SetApps(apps)

	page1 := db.Search("fortress", 1, 10)
	if len(page1.Games) != 10 || page1.TotalPages != 3 || page1.Total != 25 {
		t.Errorf("page 1: games=%d totalPages=%d total=%d, expected 10/3/25",
			len(page1.Games), page1.TotalPages, page1.Total)
	}

	page3 := db.Search("fortress", 3, 10)
	if len(page3.Games) != 5 {
		t.Errorf("page 3 has %d games, expected 5", len(page3.Games))
	}

	// Out-of-range pages clamp instead of erroring.
	clamped := db.Search("fortress", 99, 10)
	if clamped.Page != 3 {
		t.Errorf("page clamped to %d, expected 3", clamped.Page)
	}
	if zero := db.Search("fortress", 0, 10); zero.Page != 1 {
		t.Errorf("page 0 clamped to %d, expected 1", zero.Page)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	db := NewDatabase(t.TempDir())
	db.SetApps(testApps())

	results := db.Search("   ", 1, 20)
	if results.Total != 0 || len(results.Games) != 0 {
		t.Errorf("empty query returned %d results, expected none", results.Total)
	}
}

func TestNameByID(t *testing.T) {
	db := NewDatabase(t.TempDir())
	db.SetApps(testApps())

	if name := db.NameByID(440); name != "Team Fortress 2" {
		t.Errorf("NameByID(440) = %q, expected %q", name, "Team Fortress 2")
	}
	if name := db.NameByID(99999); name != "AppID: 99999" {
		t.Errorf("NameByID(99999) = %q, expected placeholder", name)
	}
}

func TestLoadFetchesAndCaches(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		resp := appListResponse{}
		resp.AppList.Apps = testApps()
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	db := NewDatabase(cacheDir)
	db.SetBaseURL(server.URL)

	if err := db.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if requests != 1 {
		t.Fatalf("made %d requests, expected 1", requests)
	}
	if !db.IsLoaded() {
		t.Error("IsLoaded = false after Load")
	}
	if _, err := os.Stat(db.CachePath()); err != nil {
		t.Errorf("disk cache not written: %v", err)
	}

	// A fresh database over the same cache dir loads from disk.
	db2 := NewDatabase(cacheDir)
	db2.SetBaseURL(server.URL)
	if err := db2.Load(context.Background()); err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if requests != 1 {
		t.Errorf("made %d requests, expected cache hit to avoid the second", requests)
	}
	if name := db2.NameByID(570); name != "Dota 2" {
		t.Errorf("NameByID after cache load = %q, expected %q", name, "Dota 2")
	}
}

func TestLoadIgnoresExpiredCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := appListResponse{}
		resp.AppList.Apps = testApps()
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	db := NewDatabase(cacheDir)
	db.SetBaseURL(server.URL)

	stale, _ := json.Marshal(cachedAppList{
		Timestamp: time.Now().Add(-AppListCacheTTL - time.Hour).Unix(),
		Apps:      []AppEntry{{AppID: 1, Name: "Stale"}},
	})
	os.MkdirAll(cacheDir, 0o755)
	if err := os.WriteFile(db.CachePath(), stale, 0o644); err != nil {
		t.Fatalf("writing stale cache: %v", err)
	}

	if err := db.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if name := db.NameByID(440); name != "Team Fortress 2" {
		t.Errorf("expired cache was served: NameByID(440) = %q", name)
	}
}

func TestClearDiskCache(t *testing.T) {
	db := NewDatabase(t.TempDir())

	// Clearing a cache that does not exist is fine.
	if err := db.ClearDiskCache(); err != nil {
		t.Errorf("ClearDiskCache on missing file returned error: %v", err)
	}

	if err := db.saveToCache(testApps()); err != nil {
		t.Fatalf("saveToCache: %v", err)
	}
	if err := db.ClearDiskCache(); err != nil {
		t.Fatalf("ClearDiskCache returned error: %v", err)
	}
	if _, err := os.Stat(db.CachePath()); !os.IsNotExist(err) {
		t.Error("cache file still present after ClearDiskCache")
	}
}
