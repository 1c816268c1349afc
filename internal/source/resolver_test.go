package source

import (
	"errors"
	"testing"

	"github.com/oracleapp/oracle/internal/model"
)

func TestResolveOrdering(t *testing.T) {
	candidates := []model.CandidateSource{
		{ID: "c", Repo: "c/repo", Priority: 2},
		{ID: "a", Repo: "a/repo", Priority: 0},
		{ID: "b", Repo: "b/repo", Priority: 1},
	}
	resolver := NewResolver(candidates)

	resolved, err := resolver.Resolve(440)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	expected := []string{"a/repo", "b/repo", "c/repo"}
	if len(resolved) != len(expected) {
		t.Fatalf("Resolve returned %d candidates, expected %d", len(resolved), len(expected))
	}
	for i, repo := range expected {
		if resolved[i].Repo != repo {
			t.Errorf("candidate %d = %s, expected %s", i, resolved[i].Repo, repo)
		}
	}
}

func TestResolveTiesBrokenByRepo(t *testing.T) {
	resolver := NewResolver([]model.CandidateSource{
		{Repo: "zeta/repo", Priority: 0},
		{Repo: "alpha/repo", Priority: 0},
	})

	resolved, err := resolver.Resolve(440)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved[0].Repo != "alpha/repo" || resolved[1].Repo != "zeta/repo" {
		t.Errorf("tie not broken by repo name: got %s, %s", resolved[0].Repo, resolved[1].Repo)
	}
}

func TestResolveDeterministic(t *testing.T) {
	resolver := NewResolver([]model.CandidateSource{
		{Repo: "b/repo", Priority: 1},
		{Repo: "a/repo", Priority: 0},
	})

	first, _ := resolver.Resolve(440)
	second, _ := resolver.Resolve(440)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("resolution not stable at index %d: %v vs %v", i, first[i], second[i])
		}
	}

	// The returned slice is a copy; mutating it must not leak back.
	first[0].Repo = "mutated"
	third, _ := resolver.Resolve(440)
	if third[0].Repo == "mutated" {
		t.Error("Resolve returned shared state instead of a copy")
	}
}

func TestResolveNoSources(t *testing.T) {
	resolver := NewResolver(nil)
	if _, err := resolver.Resolve(440); !errors.Is(err, ErrNoSourcesConfigured) {
		t.Errorf("Resolve with no candidates = %v, expected ErrNoSourcesConfigured", err)
	}
}
