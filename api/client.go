// Package api is the typed client for the remote settlement backend. Calls are
// fire-and-await: no retries, a failed call returns an *Error.
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
	"regexp"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Error is a failed backend call.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// ErrMissingLocation is returned when a trip was created but the response did
// not say where.
var ErrMissingLocation = errors.New("response has no meeting location")

// Client talks to the settlement backend.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a Client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateTripWithContributions creates a trip meeting and returns its id.
func (c *Client) CreateTripWithContributions(ctx context.Context, req CreateTripRequest) (int64, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/meetings/trip", nil, req, nil)
	if err != nil {
		return 0, err
	}
	id, err := ParseMeetingID(resp.Header.Get("Location"))
	if err != nil {
		return 0, fmt.Errorf("create trip: %w", err)
	}
	return id, nil
}

// GetTripDashboard loads the dashboard of a meeting the caller belongs to.
func (c *Client) GetTripDashboard(ctx context.Context, meetingID int64, limit, offset int) (*Dashboard, error) {
	var d Dashboard
	path := fmt.Sprintf("/api/meetings/%d/trip/dashboard", meetingID)
	if _, err := c.do(ctx, http.MethodGet, path, pageQuery(limit, offset), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetTripDashboardByUUID loads a shared dashboard. A non-zero cacheBust is
// sent so intermediaries cannot serve a stale copy.
func (c *Client) GetTripDashboardByUUID(ctx context.Context, tripUUID string, limit, offset int, cacheBust int64) (*Dashboard, error) {
	var d Dashboard
	q := pageQuery(limit, offset)
	if cacheBust != 0 {
		q.Set("_t", strconv.FormatInt(cacheBust, 10))
	}
	path := "/api/public/trips/" + url.PathEscape(tripUUID) + "/dashboard"
	if _, err := c.do(ctx, http.MethodGet, path, q, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetTripSettlementResult loads the final settlement of a meeting.
func (c *Client) GetTripSettlementResult(ctx context.Context, meetingID int64) (*SettlementResult, error) {
	var r SettlementResult
	path := fmt.Sprintf("/api/meetings/%d/trip/result", meetingID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetPublicTripResult loads a shared settlement result.
func (c *Client) GetPublicTripResult(ctx context.Context, tripUUID string) (*SettlementResult, error) {
	var r SettlementResult
	path := "/api/public/trips/" + url.PathEscape(tripUUID) + "/result"
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreatePayment records an expense. The returned payment is nil when the
// backend answers without a body.
func (c *Client) CreatePayment(ctx context.Context, meetingID int64, req PaymentRequest) (*Payment, error) {
	var p Payment
	path := fmt.Sprintf("/api/meetings/%d/payments", meetingID)
	resp, err := c.do(ctx, http.MethodPost, path, nil, req, &p)
	if err != nil {
		return nil, err
	}
	if resp.ContentLength == 0 {
		return nil, nil
	}
	return &p, nil
}

// UpdatePayment replaces an expense.
func (c *Client) UpdatePayment(ctx context.Context, meetingID, paymentID int64, req PaymentRequest) error {
	path := fmt.Sprintf("/api/meetings/%d/payments/%d", meetingID, paymentID)
	_, err := c.do(ctx, http.MethodPut, path, nil, req, nil)
	return err
}

// DeletePayment removes an expense.
func (c *Client) DeletePayment(ctx context.Context, meetingID, paymentID int64) error {
	path := fmt.Sprintf("/api/meetings/%d/payments/%d", meetingID, paymentID)
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// GetExchangeRate returns the backend's rate for currency on date (YYYY-MM-DD).
func (c *Client) GetExchangeRate(ctx context.Context, currencyCode, date string) (*ExchangeRate, error) {
	var r ExchangeRate
	q := url.Values{}
	q.Set("currency", currencyCode)
	if date != "" {
		q.Set("date", date)
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/exchange-rates", q, nil, &r); err != nil {
		return nil, err
	}
	if r.Currency == "" {
		r.Currency = currencyCode
	}
	if r.Date == "" {
		r.Date = date
	}
	return &r, nil
}

// AddBudget adds collected funds attributed to a subset of members.
func (c *Client) AddBudget(ctx context.Context, meetingID int64, req AddBudgetRequest) error {
	path := fmt.Sprintf("/api/meetings/%d/trip/budget", meetingID)
	_, err := c.do(ctx, http.MethodPost, path, nil, req, nil)
	return err
}

var meetingIDPattern = regexp.MustCompile(`(\d+)/?$`)

// ParseMeetingID extracts the trailing numeric id of a Location header such as
// "/api/meetings/42" or "https://host/api/meetings/42/".
func ParseMeetingID(location string) (int64, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return 0, ErrMissingLocation
	}
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		location = u.Path
	}
	m := meetingIDPattern.FindStringSubmatch(location)
	if m == nil {
		return 0, fmt.Errorf("no meeting id in location %q", location)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("meeting id in location %q: %w", location, err)
	}
	return id, nil
}

func pageQuery(limit, offset int) url.Values {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	return q
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*http.Response, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("backend request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	slog.Debug("backend request", "method", method, "path", path, "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: errorMessage(data, resp.StatusCode),
		}
	}

	resp.ContentLength = int64(len(data))
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp, nil
}

// errorMessage prefers the backend's own message field.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
