package kubeflow

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

	"go.uber.org/zap"
)

const (
	runsPath = "/apis/v2beta1/runs"

	maxResponseBytes = 1 << 20
	maxErrorExcerpt  = 512
)

// ErrInvalidResponse is returned when a 2xx response body is not a JSON object
var ErrInvalidResponse = errors.New("invalid response from pipelines API")

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
	if body := strings.TrimSpace(e.Body); body != "" {
		if len(body) > maxErrorExcerpt {
			body = body[:maxErrorExcerpt] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// Client calls the Kubeflow Pipelines API
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds client configuration
type Config struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a new pipelines API client
func NewClient(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// Endpoint returns the API base URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// RunsURL returns the run creation URL
func (c *Client) RunsURL() string {
	return c.endpoint + runsPath
}

// CreateRun creates a pipeline run. An empty token sends no Authorization
// header.
func (c *Client) CreateRun(ctx context.Context, token string, req *CreateRunRequest) (Run, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run request: %w", err)
	}

	url := c.RunsURL()
	c.logger.Info("calling Kubeflow API", zap.String("url", url))
	c.logger.Info("run request payload", zap.ByteString("payload", data))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	c.logger.Info("Kubeflow API response",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(body),
		}
	}

	var run Run
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: body is null", ErrInvalidResponse)
	}

	return run, nil
}
