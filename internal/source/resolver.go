// Package source resolves a title identifier to the ordered list of
// candidate repositories that may host its artifacts.
package source

import (
	"errors"
	"sort"

	"github.com/oracleapp/oracle/internal/model"
)

// ErrNoSourcesConfigured is returned when the candidate list is
// statically empty. Network state never causes resolution to fail.
var ErrNoSourcesConfigured = errors.New("no download sources configured")

// Resolver produces candidate sources in deterministic priority order.
type Resolver struct {
	candidates []model.CandidateSource
}

// NewResolver creates a resolver over the configured candidates. The
// list is sorted once by declared priority, then repository name, so
// repeated resolutions are stable.
func NewResolver(candidates []model.CandidateSource) *Resolver {
	sorted := make([]model.CandidateSource, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Repo < sorted[j].Repo
	})
	return &Resolver{candidates: sorted}
}

// Resolve returns the ordered candidates for a title. Every title uses
// the same configured candidate set today; the identifier is part of
// the contract so per-title routing can be added without changing
// callers. The result is a copy.
func (r *Resolver) Resolve(id model.TitleID) ([]model.CandidateSource, error) {
	if len(r.candidates) == 0 {
		return nil, ErrNoSourcesConfigured
	}
	out := make([]model.CandidateSource, len(r.candidates))
	copy(out, r.candidates)
	return out, nil
}
