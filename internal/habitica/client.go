// Package habitica implements service.Source against the Habitica REST API v4.
package habitica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"hbexport/internal/config"
	"hbexport/internal/logging"
	"hbexport/internal/service"
)

const (
	// ClientName identifies this tool in the x-client header.
	ClientName = "hbexport"

	// maxErrorBody caps how much of a failed response is kept in StatusError.
	maxErrorBody = 512
)

var _ service.Source = (*Client)(nil)

// Client provides methods to interact with the Habitica REST API.
// Every call is a single attempt; there is no retry or rate-limit handling.
type Client struct {
	BaseURL    string
	UserID     string
	Token      string
	HTTPClient *http.Client

	log *slog.Logger
}

// NewClient creates a new Habitica client against the public API.
func NewClient(userID, token string) *Client {
	return &Client{
		BaseURL:    config.DefaultBaseURL,
		UserID:     userID,
		Token:      token,
		HTTPClient: &http.Client{Timeout: config.DefaultTimeout},
		log:        logging.WithComponent(slog.New(slog.NewTextHandler(io.Discard, nil)), "habitica"),
	}
}

// New creates a client from the run configuration.
func New(cfg *config.Config) *Client {
	return NewClient(cfg.UserID, cfg.APIToken).
		WithBaseURL(cfg.BaseURL).
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}).
		WithLogger(cfg.Log())
}

// WithBaseURL returns a copy of the client using a different API base.
func (c *Client) WithBaseURL(baseURL string) *Client {
	cp := *c
	cp.BaseURL = strings.TrimRight(baseURL, "/")
	return &cp
}

// WithHTTPClient returns a copy of the client using a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	cp := *c
	cp.HTTPClient = httpClient
	return &cp
}

// WithLogger returns a copy of the client logging to logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	cp := *c
	cp.log = logging.WithComponent(logger, "habitica")
	return &cp
}

// TaskOrder returns the user's unfinished to-do IDs from tasksOrder.todos.
func (c *Client) TaskOrder(ctx context.Context) ([]string, error) {
	var user userData
	query := url.Values{"userFields": {"tasksOrder"}}
	if err := c.get(ctx, "/user", query, &user); err != nil {
		return nil, fmt.Errorf("fetch user profile: %w", err)
	}
	return user.TasksOrder.Todos, nil
}

// Task returns a single task by ID.
func (c *Client) Task(ctx context.Context, id string) (service.Task, error) {
	var t apiTask
	if err := c.get(ctx, "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return service.Task{}, fmt.Errorf("fetch task %s: %w", id, err)
	}
	return t.toService(), nil
}

// CompletedTasks returns the completed to-dos Habitica still keeps.
func (c *Client) CompletedTasks(ctx context.Context) ([]service.Task, error) {
	var raw []apiTask
	query := url.Values{"type": {"completedTodos"}}
	if err := c.get(ctx, "/tasks/user", query, &raw); err != nil {
		return nil, fmt.Errorf("fetch completed to-dos: %w", err)
	}
	tasks := make([]service.Task, 0, len(raw))
	for _, t := range raw {
		tasks = append(tasks, t.toService())
	}
	return tasks, nil
}

// get issues one authenticated GET and decodes the envelope's data into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-user", c.UserID)
	req.Header.Set("x-api-key", c.Token)
	req.Header.Set("x-client", c.UserID+"-"+ClientName)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debug("habitica request",
		logging.Endpoint(path),
		logging.StatusCode(resp.StatusCode),
		logging.Duration(time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return newStatusError(resp.StatusCode, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Code       string // Habitica error name, e.g. "NotAuthorized"
	Message    string
}

func (e *StatusError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("API error: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("API error: %s (status %d)", e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("API error (status %d)", e.StatusCode)
	}
}

// Is lets errors.Is(err, service.ErrUnauthorized) match a 401.
func (e *StatusError) Is(target error) bool {
	return target == service.ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func newStatusError(status int, body []byte) *StatusError {
	se := &StatusError{StatusCode: status}
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Error != "" || env.Message != "") {
		se.Code = env.Error
		se.Message = env.Message
		return se
	}
	se.Message = truncate(strings.TrimSpace(string(body)), maxErrorBody)
	return se
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// IsUnauthorized reports whether err carries a 401 from the API.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
