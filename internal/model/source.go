package model

// SourceKind describes how a candidate repository stores title data.
type SourceKind string

const (
	SourceKindBranch    SourceKind = "branch"
	SourceKindEncrypted SourceKind = "encrypted"
	SourceKindDecrypted SourceKind = "decrypted"
)

// CandidateSource is one remote location that may host a title's
// artifacts. Produced per resolution call, never persisted.
type CandidateSource struct {
	ID       string // stable identifier, the repository slug
	Repo     string // owner/name on GitHub
	Kind     SourceKind
	Priority int // lower tries first
}
