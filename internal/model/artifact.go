package model

// ArtifactKind identifies the role of a downloaded file.
type ArtifactKind string

const (
	// ArtifactUnlockDescriptor is the per-title lua configuration file
	// enumerating enabled content, placed in stplug-in.
	ArtifactUnlockDescriptor ArtifactKind = "UnlockDescriptor"

	// ArtifactManifest is the per-title depot manifest, placed in
	// depotcache.
	ArtifactManifest ArtifactKind = "Manifest"

	// ArtifactStatsExport is the optional stats export binary, placed
	// in StatsExport.
	ArtifactStatsExport ArtifactKind = "StatsExport"
)

// Extension returns the final filename extension for the kind.
func (k ArtifactKind) Extension() string {
	switch k {
	case ArtifactUnlockDescriptor:
		return ".lua"
	case ArtifactManifest:
		return ".manifest"
	case ArtifactStatsExport:
		return ".bin"
	}
	return ""
}

// Artifact is a single validated file retrieved from a candidate
// source. Immutable once fetched; consumed exactly once by placement.
type Artifact struct {
	Kind  ArtifactKind
	AppID TitleID
	Name  string // original filename inside the source archive
	Data  []byte
}

// HasCompleteSet reports whether the artifacts contain the minimum set
// required to install a title: the unlock descriptor and at least one
// manifest. The stats export is optional.
func HasCompleteSet(artifacts []Artifact) bool {
	var hasLua, hasManifest bool
	for _, a := range artifacts {
		switch a.Kind {
		case ArtifactUnlockDescriptor:
			hasLua = true
		case ArtifactManifest:
			hasManifest = true
		}
	}
	return hasLua && hasManifest
}
