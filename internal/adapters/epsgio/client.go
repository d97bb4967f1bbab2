// Package epsgio queries the epsg.io REST API as a fallback metadata source
// for fields the local registry cannot supply.
package epsgio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pejotu/archicad-georef/internal/core/domain"
	"github.com/pejotu/archicad-georef/internal/pkg/geodesy"
	"github.com/pejotu/archicad-georef/internal/pkg/metrics"
)

// DefaultBaseURL is the public epsg.io endpoint.
const DefaultBaseURL = "https://epsg.io"

// DefaultTimeout bounds the lookup; the resolver treats a timeout like any
// other degraded sub-result.
const DefaultTimeout = 6 * time.Second

// Client implements ports.CRSSource against epsg.io.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. Empty baseURL and zero timeout select the defaults.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Name identifies the source in resolver logs.
func (*Client) Name() string { return "epsg.io" }

type lookupResponse struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// Lookup fetches the record for code and maps its display name onto
// crs_name, description, and a heuristically extracted map_zone. An empty
// results array is not an error, the source simply had nothing.
func (c *Client) Lookup(ctx context.Context, code int) (domain.CRSMetadata, error) {
	meta, err := c.lookup(ctx, code)
	outcome := "hit"
	switch {
	case err != nil:
		outcome = "error"
	case meta.IsZero():
		outcome = "miss"
	}
	metrics.CRSLookupsTotal.WithLabelValues("epsg.io", outcome).Inc()
	return meta, err
}

func (c *Client) lookup(ctx context.Context, code int) (domain.CRSMetadata, error) {
	url := fmt.Sprintf("%s/%d.json", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.CRSMetadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.CRSMetadata{}, fmt.Errorf("epsg.io request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CRSMetadata{}, fmt.Errorf("epsg.io HTTP %d for EPSG:%d", resp.StatusCode, code)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.CRSMetadata{}, fmt.Errorf("epsg.io decode: %w", err)
	}
	if len(body.Results) == 0 {
		return domain.CRSMetadata{}, nil
	}

	name := body.Results[0].Name
	return domain.CRSMetadata{
		CRSName:     name,
		Description: name,
		MapZone:     geodesy.ExtractZone(name, ""),
	}, nil
}
