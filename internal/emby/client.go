package emby

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/five82/embycli/internal/logging"
)

// SessionFetcher is the one capability the now-playing views need.
type SessionFetcher interface {
	Sessions(ctx context.Context) ([]Session, error)
}

// Ensure Client implements SessionFetcher at compile time.
var _ SessionFetcher = (*Client)(nil)

// Client talks to the Emby HTTP API.
type Client struct {
	baseURL   *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "embycli/0.1"
	requestTimeout   = 30 * time.Second
	apiPrefix        = "/emby/"
	errorBodyLimit   = 256
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the server at apiURL authenticating with apiKey.
func NewClient(apiURL, apiKey string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		apiKey:    apiKey,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIURL returns the server base URL without the API prefix.
func (c *Client) APIURL() string {
	if c == nil {
		return ""
	}
	return strings.TrimSuffix(c.baseURL.String(), "/")
}

// Sessions retrieves every connected session, idle ones included.
func (c *Client) Sessions(ctx context.Context) ([]Session, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Session
	if err := c.Get(ctx, "/Sessions", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SystemInfo retrieves server version and platform details.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload SystemInfo
	if err := c.Get(ctx, "/System/Info", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Users lists the server's users.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []User
	if err := c.Get(ctx, "/Users", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Devices lists registered devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload DevicesResponse
	if err := c.Get(ctx, "/Devices", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// VirtualFolders lists the configured libraries.
func (c *Client) VirtualFolders(ctx context.Context) ([]VirtualFolder, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []VirtualFolder
	if err := c.Get(ctx, "/Library/VirtualFolders", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ActivityLog returns the most recent activity log entries.
func (c *Client) ActivityLog(ctx context.Context, limit int) ([]ActivityLogEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("Limit", strconv.Itoa(limit))
	var payload ActivityLogResponse
	if err := c.Get(ctx, "/System/ActivityLog/Entries", values, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// LatestQuery configures /Users/{id}/Items/Latest requests.
type LatestQuery struct {
	UserID           string
	Limit            int
	IncludeItemTypes string
}

// LatestItems returns recently added items for a user.
func (c *Client) LatestItems(ctx context.Context, query LatestQuery) ([]BaseItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(query.UserID) == "" {
		return nil, fmt.Errorf("user id required")
	}
	values := url.Values{}
	values.Set("Limit", strconv.Itoa(query.Limit))
	values.Set("Fields", "DateCreated,Overview")
	values.Set("GroupItems", "true")
	if types := strings.TrimSpace(query.IncludeItemTypes); types != "" {
		values.Set("IncludeItemTypes", types)
	}
	var payload []BaseItem
	path := "/Users/" + query.UserID + "/Items/Latest"
	if err := c.Get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SearchHints runs a library search.
func (c *Client) SearchHints(ctx context.Context, term string, limit int) ([]SearchHint, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("SearchTerm", term)
	values.Set("Limit", strconv.Itoa(limit))
	var payload SearchHintResponse
	if err := c.Get(ctx, "/Search/Hints", values, &payload); err != nil {
		return nil, err
	}
	return payload.SearchHints, nil
}

// NextUp returns the next unwatched episode of each series in progress.
func (c *Client) NextUp(ctx context.Context, userID string, limit int) ([]BaseItem, error) {
	return c.showsQuery(ctx, "/Shows/NextUp", userID, limit)
}

// Upcoming returns episodes that have not aired yet.
func (c *Client) Upcoming(ctx context.Context, userID string, limit int) ([]BaseItem, error) {
	return c.showsQuery(ctx, "/Shows/Upcoming", userID, limit)
}

func (c *Client) showsQuery(ctx context.Context, path, userID string, limit int) ([]BaseItem, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("UserId", userID)
	values.Set("Limit", strconv.Itoa(limit))
	values.Set("Fields", "Overview")
	var payload ItemsResponse
	if err := c.Get(ctx, path, values, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// ScheduledTasks lists the server's scheduled tasks, hidden ones included.
func (c *Client) ScheduledTasks(ctx context.Context) ([]TaskInfo, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []TaskInfo
	if err := c.Get(ctx, "/ScheduledTasks", nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// RunTask starts a scheduled task.
func (c *Client) RunTask(ctx context.Context, id string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("task id required")
	}
	return c.Post(ctx, "/ScheduledTasks/Running/"+id, nil)
}

// RefreshItem queues a metadata refresh of a library item.
func (c *Client) RefreshItem(ctx context.Context, id string, opts RefreshOptions) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.Post(ctx, "/Items/"+id+"/Refresh", opts)
}

// Restart asks the server to restart.
func (c *Client) Restart(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.Post(ctx, "/System/Restart", nil)
}

// Get issues a GET for path under the API prefix and decodes the JSON body into dest.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dest any) error {
	rel := &url.URL{Path: apiPath(path), RawQuery: query.Encode()}
	return c.doURL(ctx, http.MethodGet, rel, nil, dest)
}

// Post issues a POST with an optional JSON body. Response bodies are discarded.
func (c *Client) Post(ctx context.Context, path string, body any) error {
	rel := &url.URL{Path: apiPath(path)}
	return c.doURL(ctx, http.MethodPost, rel, body, nil)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(c.baseURL.Path, "/") + rel.Path
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Emby-Token", c.apiKey)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Debug().Err(err).Str("method", method).Str("path", rel.Path).Msg("request failed")
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logging.Debug().
		Str("method", method).
		Str("path", rel.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("emby request")

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
		}
		return fmt.Errorf("api %s returned status %d: %s", rel.Path, resp.StatusCode, msg)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiPath(path string) string {
	return apiPrefix + strings.TrimPrefix(path, "/")
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(strings.TrimRight(trimmed, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
