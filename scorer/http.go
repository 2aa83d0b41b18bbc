package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tsawler/pagelayout/layout"
)

// ErrStatus is returned when the scoring service answers with a non-2xx status
var ErrStatus = errors.New("unexpected status from scoring service")

// HTTPConfig holds configuration for the HTTP scorer
type HTTPConfig struct {
	// BaseURL of the scoring service; requests go to BaseURL + "/reorder"
	BaseURL string

	// APIKey is sent as a bearer token when set
	APIKey string

	// Timeout bounds a single request (default: 30s)
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate (default: 4)
	RequestsPerSecond float64

	// Burst is the largest number of requests sent back to back (default: 8)
	Burst int
}

// DefaultHTTPConfig returns sensible default configuration
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		BaseURL:           "http://localhost:8080",
		Timeout:           30 * time.Second,
		RequestsPerSecond: 4,
		Burst:             8,
	}
}

type reorderRequest struct {
	Boxes []layout.Box `json:"boxes"`
}

type reorderResponse struct {
	Orders []int `json:"orders"`
}

// HTTPScorer sends box lists to a reading-order model served over HTTP
type HTTPScorer struct {
	config     HTTPConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPScorer creates an HTTP scorer
func NewHTTPScorer(config HTTPConfig) *HTTPScorer {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	return &HTTPScorer{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// Score implements layout.Scorer
func (s *HTTPScorer) Score(ctx context.Context, boxes []layout.Box) ([]int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(reorderRequest{Boxes: boxes})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(s.config.BaseURL, "/") + "/reorder"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out reorderResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return out.Orders, nil
}
