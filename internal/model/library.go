package model

// LibraryEntry is one title observed in the managed directories. A
// title may have only one of its two files; that is a displayable
// state, not an error.
type LibraryEntry struct {
	AppID       TitleID `json:"app_id"`
	Name        string  `json:"name"`
	HasLua      bool    `json:"lua_file"`
	HasManifest bool    `json:"manifest_file"`
}

// DirectoryStatus reports whether the managed directories exist.
type DirectoryStatus struct {
	Lua      bool `json:"lua"`
	Manifest bool `json:"manifest"`
}
