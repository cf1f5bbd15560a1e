package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tenderlens/tenderlens/internal/domain"
)

const defaultTimeout = 180 * time.Second

// Draft is the API draft representation.
type Draft = domain.Draft

// AnalysisResult is the API analysis representation.
type AnalysisResult = domain.AnalysisResult

// CreateDraftRequest is the payload for CreateDraft.
type CreateDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CPVCode     string `json:"cpv_code,omitempty"`
}

// DraftList is the ListDrafts response.
type DraftList struct {
	Items []Draft `json:"items"`
	Total int     `json:"total"`
}

// Health is the service health report.
type Health struct {
	Status            string            `json:"status"`
	Checks            map[string]string `json:"checks"`
	GenerationBackend string            `json:"generation_backend"`
}

// APIError is a non-sentinel API failure with the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tenderlens: API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client is the tenderlens API client entry point.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout. Analyze calls hold the
// connection open for the full generation, so keep this generous.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = &http.Client{Timeout: d} }
}

// New creates a tenderlens API client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tenderlens: base URL required")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// CreateDraft submits a new tender draft.
func (c *Client) CreateDraft(ctx context.Context, req CreateDraftRequest) (Draft, error) {
	var d Draft
	err := c.do(ctx, http.MethodPost, "/api/v1/drafts", req, &d)
	return d, err
}

// ListDrafts returns all drafts, newest first.
func (c *Client) ListDrafts(ctx context.Context) (DraftList, error) {
	var list DraftList
	err := c.do(ctx, http.MethodGet, "/api/v1/drafts", nil, &list)
	return list, err
}

// GetDraft loads a draft by id.
func (c *Client) GetDraft(ctx context.Context, id string) (Draft, error) {
	var d Draft
	err := c.do(ctx, http.MethodGet, "/api/v1/drafts/"+id, nil, &d)
	return d, err
}

// Analyze runs the analysis pipeline for a draft and returns the completed
// result. The call is synchronous and may take up to the server's
// generation timeout.
func (c *Client) Analyze(ctx context.Context, draftID string) (AnalysisResult, error) {
	var res AnalysisResult
	err := c.do(ctx, http.MethodPost, "/api/v1/drafts/"+draftID+"/analyze", nil, &res)
	return res, err
}

// GetAnalysis returns the stored analysis for a draft.
func (c *Client) GetAnalysis(ctx context.Context, draftID string) (AnalysisResult, error) {
	var res AnalysisResult
	err := c.do(ctx, http.MethodGet, "/api/v1/drafts/"+draftID+"/analysis", nil, &res)
	return res, err
}

// HealthCheck returns the service health report.
func (c *Client) HealthCheck(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/healthz", nil, &h)
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tenderlens: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("tenderlens: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("tenderlens: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("tenderlens: decode response: %w", err)
		}
	}
	return nil
}

// decodeError maps the server's error envelope back to sentinel errors so
// callers can use errors.Is the same way server-side code does.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Code == "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       "unknown",
			Message:    strings.TrimSpace(string(raw)),
		}
	}

	sentinel := map[string]error{
		"validation_failed":    ErrValidation,
		"draft_not_found":      ErrDraftNotFound,
		"analysis_not_found":   ErrAnalysisNotFound,
		"generation_failed":    ErrGeneration,
		"invalid_model_output": ErrParse,
	}
	if s, ok := sentinel[envelope.Code]; ok {
		return fmt.Errorf("%s: %w", envelope.Message, s)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       envelope.Code,
		Message:    envelope.Message,
	}
}
