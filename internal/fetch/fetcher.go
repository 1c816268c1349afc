// Package fetch retrieves title artifacts from candidate repositories
// and implements the bounded linear fallback across sources.
package fetch

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/source"
)

// HTTP client constants
const (
	DefaultBaseURL = "https://api.github.com"
	UserAgent      = "oracle-downloader/1.0"
	FetchTimeout   = 10 * time.Minute
)

// zipSignature is the local-file-header magic every zipball starts with.
var zipSignature = []byte{'P', 'K', 0x03, 0x04}

var (
	// ErrFetchFailed marks transport-level failures: connection errors
	// and non-success HTTP statuses.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidArtifact marks payloads that arrived but are
	// structurally unusable: empty bodies, non-zip content, archives
	// without any title files.
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrDownloadFailed means every candidate source was exhausted.
	ErrDownloadFailed = errors.New("failed to download title data from all repositories")
)

// Attempt records the outcome of trying one candidate source.
type Attempt struct {
	Source string
	Err    error
}

// Report collects per-candidate failure reasons for diagnostics.
type Report struct {
	Attempts []Attempt
}

// Summary renders the attempts as a single diagnostic line.
func (r *Report) Summary() string {
	if len(r.Attempts) == 0 {
		return "no candidates attempted"
	}
	parts := make([]string, 0, len(r.Attempts))
	for _, a := range r.Attempts {
		if a.Err == nil {
			parts = append(parts, fmt.Sprintf("%s: ok", a.Source))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", a.Source, a.Err))
	}
	return strings.Join(parts, "; ")
}

// Fetcher downloads and validates artifacts. It never touches the
// final destination directories.
type Fetcher struct {
	client   *http.Client
	resolver *source.Resolver
	baseURL  string
}

// NewFetcher creates a fetcher over the given resolver.
func NewFetcher(resolver *source.Resolver) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: FetchTimeout},
		resolver: resolver,
		baseURL:  DefaultBaseURL,
	}
}

// SetBaseURL overrides the repository host, used by tests.
func (f *Fetcher) SetBaseURL(baseURL string) {
	f.baseURL = strings.TrimSuffix(baseURL, "/")
}

// FetchArtifacts retrieves and validates the artifact set one
// candidate holds for a title.
func (f *Fetcher) FetchArtifacts(ctx context.Context, candidate model.CandidateSource, id model.TitleID) ([]model.Artifact, error) {
	url := fmt.Sprintf("%s/repos/%s/zipball/%d", f.baseURL, candidate.Repo, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrFetchFailed, resp.StatusCode, candidate.Repo)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}

	artifacts, err := ExtractArtifacts(body, id)
	if err != nil {
		return nil, err
	}
	if !model.HasCompleteSet(artifacts) {
		return nil, fmt.Errorf("%w: archive from %s has no complete artifact set", ErrInvalidArtifact, candidate.Repo)
	}
	return artifacts, nil
}

// DownloadTitle tries candidates in resolver order until one yields a
// complete valid artifact set. Fallback is bounded by the candidate
// list length; a failing source is never retried. The report carries
// the per-candidate reasons regardless of outcome.
func (f *Fetcher) DownloadTitle(ctx context.Context, id model.TitleID) ([]model.Artifact, *Report, error) {
	candidates, err := f.resolver.Resolve(id)
	if err != nil {
		return nil, &Report{}, err
	}

	report := &Report{}
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		artifacts, err := f.FetchArtifacts(ctx, candidate, id)
		if err == nil {
			report.Attempts = append(report.Attempts, Attempt{Source: candidate.Repo})
			return artifacts, report, nil
		}

		report.Attempts = append(report.Attempts, Attempt{Source: candidate.Repo, Err: err})
		if errors.Is(err, ErrInvalidArtifact) {
			log.Printf("Invalid payload from %s for AppID %d: %v", candidate.Repo, id, err)
		} else {
			log.Printf("Fetch from %s failed for AppID %d: %v", candidate.Repo, id, err)
		}
	}

	return nil, report, fmt.Errorf("%w (AppID %d): %s", ErrDownloadFailed, id, report.Summary())
}

// ExtractArtifacts validates the zipball payload and pulls the title
// files out of it. The payload must be non-empty, carry the zip
// signature, and contain at least one usable file.
func ExtractArtifacts(payload []byte, id model.TitleID) ([]model.Artifact, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidArtifact)
	}
	if !bytes.HasPrefix(payload, zipSignature) {
		return nil, fmt.Errorf("%w: payload is not a zip archive", ErrInvalidArtifact)
	}

	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	var artifacts []model.Artifact
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		name := path.Base(file.Name)
		kind, ok := classifyArtifact(name)
		if !ok {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
		}

		artifacts = append(artifacts, model.Artifact{
			Kind:  kind,
			AppID: id,
			Name:  name,
			Data:  data,
		})
	}

	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: archive contains no title files", ErrInvalidArtifact)
	}
	return artifacts, nil
}

func classifyArtifact(name string) (model.ArtifactKind, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".lua":
		return model.ArtifactUnlockDescriptor, true
	case ".manifest":
		return model.ArtifactManifest, true
	case ".bin":
		return model.ArtifactStatsExport, true
	}
	return "", false
}
