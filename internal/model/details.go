package model

import (
	"encoding/json"
	"sort"
	"strconv"
)

// ReleaseDate is the catalog's release date block.
type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// AppDetails is the metadata the engine relies on for one title,
// mapped from the catalog's loosely-typed response. Fields the engine
// does not interpret are preserved in Extra so the frontend can still
// render them.
type AppDetails struct {
	Name             string      `json:"name"`
	SteamAppID       TitleID     `json:"steam_appid"`
	HeaderImage      string      `json:"header_image"`
	Publishers       []string    `json:"publishers"`
	Developers       []string    `json:"developers"`
	ReleaseDate      ReleaseDate `json:"release_date"`
	ShortDescription string      `json:"short_description"`
	DRMNotice        string      `json:"drm_notice,omitempty"`
	DLC              DLCList     `json:"dlc"`

	// Extra holds catalog fields outside the typed set above, passed
	// through untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// knownDetailFields are the keys mapped onto typed AppDetails fields.
var knownDetailFields = []string{
	"name", "steam_appid", "header_image", "publishers", "developers",
	"release_date", "short_description", "drm_notice", "dlc",
}

// UnmarshalJSON splits the response into typed fields and the opaque
// Extra passthrough.
func (d *AppDetails) UnmarshalJSON(data []byte) error {
	type alias AppDetails
	var typed alias
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range knownDetailFields {
		delete(raw, key)
	}
	if len(raw) == 0 {
		raw = nil
	}

	*d = AppDetails(typed)
	d.Extra = raw
	return nil
}

// MarshalJSON merges the typed fields with the Extra passthrough so
// the frontend sees the original shape.
func (d AppDetails) MarshalJSON() ([]byte, error) {
	type alias AppDetails
	typed, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return typed, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(typed, &merged); err != nil {
		return nil, err
	}
	for key, value := range d.Extra {
		if _, exists := merged[key]; !exists {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

// DLCList is a list of DLC AppIDs. The catalog serves this field in
// several shapes (array of numbers, array of strings, object keyed by
// index, null), so decoding is tolerant: unparseable elements are
// dropped rather than failing the whole response.
type DLCList []TitleID

// UnmarshalJSON accepts array, object, and null forms.
func (d *DLCList) UnmarshalJSON(data []byte) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case nil:
		*d = nil
	case []any:
		*d = dlcFromValues(v)
	case map[string]any:
		values := make([]any, 0, len(v))
		for _, item := range v {
			values = append(values, item)
		}
		ids := dlcFromValues(values)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		*d = ids
	default:
		*d = nil
	}
	return nil
}

func dlcFromValues(values []any) DLCList {
	var ids DLCList
	for _, value := range values {
		switch v := value.(type) {
		case float64:
			if v > 0 {
				ids = append(ids, TitleID(v))
			}
		case string:
			if parsed, err := strconv.ParseUint(v, 10, 32); err == nil && parsed > 0 {
				ids = append(ids, TitleID(parsed))
			}
		}
	}
	return ids
}

// GameInfo is a compact search result row.
type GameInfo struct {
	AppID   TitleID `json:"app_id"`
	Name    string  `json:"game_name"`
	IconURL string  `json:"icon_url,omitempty"`
}

// SearchResults is one page of catalog search results.
type SearchResults struct {
	Games      []GameInfo `json:"games"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Query      string     `json:"query"`
}

// Account is a saved account record. The credential fields are opaque
// to the engine; they are stored and handed to the external
// switch-account action without interpretation.
type Account struct {
	GameName    string `json:"gameName"`
	DisplayName string `json:"displayName"`
	Username    string `json:"steamUsername"`
	Password    string `json:"steamPassword"`
	ImageURL    string `json:"imageUrl"`
	DRM         string `json:"drm,omitempty"`
}
