// Package catalog talks to the remote catalog: the full app list used
// for search and name lookups, and per-title detail metadata.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oracleapp/oracle/internal/model"
)

// App list endpoint and cache policy
const (
	DefaultAppListBaseURL = "https://api.steampowered.com"
	appListPath           = "/ISteamApps/GetAppList/v2/"
	AppListCacheFileName  = "applist.json"
	AppListCacheTTL       = 3 * 24 * time.Hour
	appListTimeout        = 60 * time.Second
)

// Search result header image URL pattern
const headerImageURLFormat = "https://cdn.akamai.steamstatic.com/steam/apps/%d/header.jpg"

// nonGameKeywords marks catalog entries that are DLC, media or
// bundles rather than standalone games. Filtered from search results
// unless the query itself asks for them.
var nonGameKeywords = []string{
	"dlc", "soundtrack", "demo", "pack", "sdk", "artbook", "trailer",
	"movie", "beta", "ost", "original sound", "wallpaper", "art book",
	"season pass", "bonus content", "expansion", "upgrade", "add-on",
	"pre-purchase", "pre-order", "deluxe", "playtest", "cd key",
	"activation", "gift card",
}

// explicitNonGameTerms are query terms that signal the user wants the
// filtered categories.
var explicitNonGameTerms = []string{
	"dlc", "soundtrack", "demo", "pack", "artbook", "trailer", "movie",
	"beta", "pass",
}

// AppEntry is one row of the remote app list.
type AppEntry struct {
	AppID model.TitleID `json:"appid"`
	Name  string        `json:"name"`
}

type appListResponse struct {
	AppList struct {
		Apps []AppEntry `json:"apps"`
	} `json:"applist"`
}

type cachedAppList struct {
	Timestamp int64      `json:"timestamp"`
	Apps      []AppEntry `json:"apps"`
}

// Database holds the searchable app list, loaded through a disk cache
// with a TTL so the multi-megabyte list is not re-fetched every start.
type Database struct {
	mu     sync.RWMutex
	apps   []AppEntry
	byID   map[model.TitleID]string
	loaded bool

	client    *http.Client
	baseURL   string
	cachePath string
}

// NewDatabase creates a database whose disk cache lives in cacheDir.
func NewDatabase(cacheDir string) *Database {
	return &Database{
		byID:      make(map[model.TitleID]string),
		client:    &http.Client{Timeout: appListTimeout},
		baseURL:   DefaultAppListBaseURL,
		cachePath: filepath.Join(cacheDir, AppListCacheFileName),
	}
}

// SetBaseURL overrides the catalog host, used by tests.
func (d *Database) SetBaseURL(baseURL string) {
	d.baseURL = strings.TrimSuffix(baseURL, "/")
}

// CachePath returns the disk cache location.
func (d *Database) CachePath() string {
	return d.cachePath
}

// IsLoaded reports whether the app list is available in memory.
func (d *Database) IsLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Load makes the app list available, preferring a fresh disk cache and
// falling back to the remote endpoint. Loading twice is a no-op.
func (d *Database) Load(ctx context.Context) error {
	if d.IsLoaded() {
		return nil
	}

	if apps, err := d.loadFromCache(); err == nil {
		d.install(apps)
		log.Printf("Loaded %d apps from catalog cache", len(apps))
		return nil
	}

	apps, err := d.fetchAppList(ctx)
	if err != nil {
		return err
	}
	if err := d.saveToCache(apps); err != nil {
		log.Printf("Failed to save app list cache: %v", err)
	}
	d.install(apps)
	log.Printf("Loaded %d apps from catalog", len(apps))
	return nil
}

// SetApps installs an app list directly, used by tests.
func (d *Database) SetApps(apps []AppEntry) {
	d.install(apps)
}

// NameByID returns the display name for an AppID, or the placeholder
// when unknown. Satisfies library.NameResolver.
func (d *Database) NameByID(id model.TitleID) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if name, ok := d.byID[id]; ok {
		return name
	}
	return id.PlaceholderName()
}

// Lookup returns the search row for an exact AppID.
func (d *Database) Lookup(id model.TitleID) (model.GameInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	name, ok := d.byID[id]
	if !ok {
		return model.GameInfo{}, false
	}
	return model.GameInfo{
		AppID:   id,
		Name:    name,
		IconURL: fmt.Sprintf(headerImageURLFormat, id),
	}, true
}

// Search matches the query against app names. Multiple comma-separated
// terms are OR-ed. Non-game entries are filtered out unless a term
// explicitly asks for them. Results are paginated.
func (d *Database) Search(query string, page, perPage int) model.SearchResults {
	if strings.TrimSpace(query) == "" {
		return model.SearchResults{Games: []model.GameInfo{}, Page: 1, TotalPages: 1}
	}
	if perPage <= 0 {
		perPage = 20
	}

	var terms []string
	for _, term := range strings.Split(query, ",") {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			terms = append(terms, term)
		}
	}

	wantsNonGames := false
	for _, term := range terms {
		for _, explicit := range explicitNonGameTerms {
			if term == explicit {
				wantsNonGames = true
			}
		}
	}

	d.mu.RLock()
	var matches []AppEntry
	for _, app := range d.apps {
		name := strings.ToLower(app.Name)

		matched := false
		for _, term := range terms {
			if strings.Contains(name, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		if !wantsNonGames && isNonGame(name) {
			continue
		}
		matches = append(matches, app)
	}
	d.mu.RUnlock()

	total := len(matches)
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	games := make([]model.GameInfo, 0, end-start)
	for _, app := range matches[start:end] {
		games = append(games, model.GameInfo{
			AppID:   app.AppID,
			Name:    app.Name,
			IconURL: fmt.Sprintf(headerImageURLFormat, app.AppID),
		})
	}

	return model.SearchResults{
		Games:      games,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
		Query:      query,
	}
}

// ClearDiskCache removes the on-disk app list cache.
func (d *Database) ClearDiskCache() error {
	err := os.Remove(d.cachePath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("Failed to clear cache: %w", err)
	}
	return nil
}

func isNonGame(name string) bool {
	for _, keyword := range nonGameKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

func (d *Database) install(apps []AppEntry) {
	byID := make(map[model.TitleID]string, len(apps))
	for _, app := range apps {
		byID[app.AppID] = app.Name
	}

	d.mu.Lock()
	d.apps = apps
	d.byID = byID
	d.loaded = true
	d.mu.Unlock()
}

func (d *Database) loadFromCache() ([]AppEntry, error) {
	data, err := os.ReadFile(d.cachePath)
	if err != nil {
		return nil, err
	}

	var cached cachedAppList
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	age := time.Since(time.Unix(cached.Timestamp, 0))
	if age > AppListCacheTTL {
		return nil, fmt.Errorf("app list cache expired (%s old)", age.Round(time.Hour))
	}
	return cached.Apps, nil
}

func (d *Database) saveToCache(apps []AppEntry) error {
	if err := os.MkdirAll(filepath.Dir(d.cachePath), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(cachedAppList{
		Timestamp: time.Now().Unix(),
		Apps:      apps,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(d.cachePath, data, 0o644)
}

func (d *Database) fetchAppList(ctx context.Context) ([]AppEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+appListPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var parsed appListResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response: %w", err)
	}
	return parsed.AppList.Apps, nil
}
