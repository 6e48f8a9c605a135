package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	appErrors "github.com/noah-isme/respub-api/pkg/errors"
)

// Checker is the contract for the external DOI duplicate classifier. Any
// backend (heuristic, database lookup, model-backed) satisfying it is
// acceptable.
type Checker interface {
	Check(ctx context.Context, doi string) (bool, error)
}

// Client calls the duplicate-classifier service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a classifier client with the given endpoint and timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type checkRequest struct {
	DOI string `json:"doi"`
}

type checkResponse struct {
	IsDuplicate bool `json:"isDuplicate"`
}

// Check submits the DOI and returns the classifier verdict.
func (c *Client) Check(ctx context.Context, doi string) (bool, error) {
	payload, err := json.Marshal(checkRequest{DOI: doi})
	if err != nil {
		return false, fmt.Errorf("marshal classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrAdvisoryUnavailable.Code, appErrors.ErrAdvisoryUnavailable.Status, "classifier unreachable")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read classifier response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, appErrors.Clone(appErrors.ErrAdvisoryUnavailable, fmt.Sprintf("classifier returned status %d", resp.StatusCode))
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, fmt.Errorf("decode classifier response: %w", err)
	}
	return parsed.IsDuplicate, nil
}
