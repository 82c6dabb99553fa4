// Package client implements calendar.Repository over the dayplan REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

const defaultTimeout = 10 * time.Second

// Client talks to a dayplan server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// do sends a JSON request and decodes a JSON response into out.
// Error responses are mapped back to calendar errors; expected lists the
// sentinels this endpoint can answer with.
func (c *Client) do(ctx context.Context, method, path string, in, out any, expected ...error) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", calendar.ErrTransient, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", calendar.ErrTransient, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp.StatusCode, data, expected)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}

// Validation sentinels the server may answer with on 400.
var validationErrors = []error{
	calendar.ErrEmptyTitle,
	calendar.ErrInvalidCategory,
	calendar.ErrMissingDate,
	calendar.ErrMissingStart,
	calendar.ErrMissingEnd,
	calendar.ErrEndBeforeStart,
	calendar.ErrEmptyName,
	calendar.ErrMissingColor,
	calendar.ErrMissingGoal,
	calendar.ErrMalformedID,
}

// responseError rebuilds a calendar error from a {"message": ...} body.
func responseError(status int, data []byte, expected []error) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &body)
	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case status == http.StatusBadRequest:
		if err := match(msg, validationErrors); err != nil {
			return err
		}
		return calendar.Validation(uncapitalize(msg))
	case status == http.StatusNotFound:
		if err := match(msg, expected); err != nil {
			return err
		}
		return fmt.Errorf("%s: %w", uncapitalize(msg), calendar.ErrNotFound)
	case status == http.StatusTooManyRequests, status == http.StatusBadGateway,
		status == http.StatusServiceUnavailable, status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", calendar.ErrTransient, msg)
	default:
		return fmt.Errorf("server error (%d): %s", status, msg)
	}
}

func match(msg string, candidates []error) error {
	for _, err := range candidates {
		if strings.EqualFold(msg, err.Error()) {
			return err
		}
	}
	return nil
}

func uncapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// idPath joins a collection path and an entity id.
func idPath(collection, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", calendar.ErrMalformedID
	}
	return collection + "/" + url.PathEscape(id), nil
}

// localizeEvent moves decoded timestamps into the local zone. The date keeps the
// calendar day the server reported.
func localizeEvent(e *calendar.Event) {
	if d, err := dateutil.ParseDateIn(e.Date.Format(dateutil.DateLayout), time.Local); err == nil {
		e.Date = d
	}
	e.StartTime = e.StartTime.In(time.Local)
	e.EndTime = e.EndTime.In(time.Local)
	e.CreatedAt = e.CreatedAt.In(time.Local)
	e.UpdatedAt = e.UpdatedAt.In(time.Local)
}
