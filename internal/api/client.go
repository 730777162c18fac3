// Package api implements the HTTP client for the fleet REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/cabdesk/internal/common"
	"github.com/Veraticus/cabdesk/internal/model"
	"github.com/Veraticus/cabdesk/internal/service"
)

// Endpoint paths relative to the base URL.
const (
	EndpointCabs           = "/cabs"
	EndpointCabData        = "/cab-data"
	EndpointDashboard      = "/dashboard"
	EndpointDashboardDaily = "/dashboard/daily"
)

// AllCabs is the dashboard filter value that disables cab scoping.
const AllCabs = "all"

// Config holds client settings.
type Config struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
}

// Client talks to the fleet REST API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

var _ service.FleetAPI = (*Client)(nil)

// NewClient creates a client for the API rooted at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: API base URL is required", common.ErrMissingConfig)
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid API base URL: %v", common.ErrInvalidConfig, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: API base URL must be http or https, got %q", common.ErrInvalidConfig, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
	}, nil
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListCabs fetches every cab in the fleet.
func (c *Client) ListCabs(ctx context.Context) ([]model.Cab, error) {
	var cabs []model.Cab
	if err := c.get(ctx, EndpointCabs, nil, &cabs); err != nil {
		return nil, err
	}
	return cabs, nil
}

// GetEntry fetches the entry for key. A missing entry is not an error: the
// returned Entry reports Exists() == false.
func (c *Client) GetEntry(ctx context.Context, key model.EntryKey) (model.Entry, error) {
	q := url.Values{}
	q.Set("category", string(key.Category))
	q.Set("date", key.Date)
	q.Set("cab_number", key.CabNumber)

	var raw json.RawMessage
	if err := c.get(ctx, EndpointCabData, q, &raw); err != nil {
		return model.Entry{}, err
	}
	return decodeEntry(raw)
}

// SaveEntry posts a create-or-update submission.
func (c *Client) SaveEntry(ctx context.Context, submission model.Submission) (model.Entry, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return model.Entry{}, fmt.Errorf("failed to marshal submission: %w", err)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, EndpointCabData, nil, body, &raw); err != nil {
		return model.Entry{}, err
	}
	return decodeEntry(raw)
}

// MonthlySummary fetches the yearly per-month summary, scoped to cabID
// unless it is empty or AllCabs.
func (c *Client) MonthlySummary(ctx context.Context, cabID string) (model.MonthlySummary, error) {
	var q url.Values
	if scoped(cabID) {
		q = url.Values{}
		q.Set("cab_id", cabID)
	}

	var summary model.MonthlySummary
	if err := c.get(ctx, EndpointDashboard, q, &summary); err != nil {
		return model.MonthlySummary{}, err
	}
	return summary, nil
}

// DailySummary fetches the per-day summary for one month.
func (c *Client) DailySummary(ctx context.Context, year, month int, cabID string) (model.DailySummary, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("month", strconv.Itoa(month))
	if scoped(cabID) {
		q.Set("cab_id", cabID)
	}

	var summary model.DailySummary
	if err := c.get(ctx, EndpointDashboardDaily, q, &summary); err != nil {
		return model.DailySummary{}, err
	}
	return summary, nil
}

func scoped(cabID string) bool {
	return cabID != "" && cabID != AllCabs
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	slog.Debug("API request completed",
		"method", method,
		"path", path,
		"query", u.RawQuery,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return nil
}

// decodeEntry accepts an entry object, an empty object, null or an empty
// body as "no entry".
func decodeEntry(raw json.RawMessage) (model.Entry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Entry{}, nil
	}

	var entry model.Entry
	if err := json.Unmarshal(trimmed, &entry); err != nil {
		return model.Entry{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	return entry, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API returned status %d", e.StatusCode)
}

// Unwrap lets callers match common.ErrAPIStatus.
func (e *StatusError) Unwrap() error {
	return common.ErrAPIStatus
}

func newStatusError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	return &StatusError{StatusCode: status, Message: msg}
}

// IsStatus reports whether err is an API status error with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
