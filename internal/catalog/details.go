package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/oracleapp/oracle/internal/model"
)

// Details endpoint
const (
	DefaultDetailsBaseURL = "https://store.steampowered.com"
	detailsPath           = "/api/appdetails"
	detailsTimeout        = 10 * time.Second
)

type detailsEnvelope struct {
	Success bool              `json:"success"`
	Data    *model.AppDetails `json:"data"`
}

// DetailsClient fetches per-title metadata. Responses are mapped to
// the typed AppDetails structure at this boundary; no loosely-typed
// payloads travel further in.
type DetailsClient struct {
	client  *http.Client
	baseURL string
}

// NewDetailsClient creates a details client.
func NewDetailsClient() *DetailsClient {
	return &DetailsClient{
		client:  &http.Client{Timeout: detailsTimeout},
		baseURL: DefaultDetailsBaseURL,
	}
}

// SetBaseURL overrides the details host, used by tests.
func (c *DetailsClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimSuffix(baseURL, "/")
}

// Fetch retrieves details for one title. A response with success=false
// or no data is an error, never a silent empty result.
func (c *DetailsClient) Fetch(ctx context.Context, id model.TitleID) (*model.AppDetails, error) {
	url := fmt.Sprintf("%s%s?appids=%d", c.baseURL, detailsPath, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("details endpoint returned status %d", resp.StatusCode)
	}

	var envelope map[string]detailsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse details response: %w", err)
	}

	app, ok := envelope[id.String()]
	if !ok || !app.Success || app.Data == nil {
		return nil, fmt.Errorf("no details available for AppID %d", id)
	}
	return app.Data, nil
}
