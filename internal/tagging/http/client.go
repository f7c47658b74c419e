package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/tagging"
)

// API paths served by the tagging server.
const (
	PathResults   = "/api/results"
	PathTagAdd    = "/api/results/tag/add"
	PathTagRemove = "/api/results/tag/remove"
	PathTags      = "/api/results/tags"
)

// TagRequest is the body of the add and remove calls.
type TagRequest struct {
	ResultID uint   `json:"result_id"`
	TagName  string `json:"tag_name"`
}

// TagListResponse is the body returned by the tag listing.
type TagListResponse struct {
	Tags []string `json:"tags"`
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Client talks to a tagging server over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new tagging client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		userAgent: "favtag",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithTransport sets a custom HTTP transport.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = transport
	}
}

// WithUserAgent sets the User-Agent header sent with every call.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddTag adds a tag to a result.
func (c *Client) AddTag(ctx context.Context, resultID uint, tagName string) error {
	return c.do(ctx, http.MethodPost, PathTagAdd, TagRequest{ResultID: resultID, TagName: tagName}, nil)
}

// RemoveTag removes a tag from a result.
func (c *Client) RemoveTag(ctx context.Context, resultID uint, tagName string) error {
	return c.do(ctx, http.MethodPost, PathTagRemove, TagRequest{ResultID: resultID, TagName: tagName}, nil)
}

// ListResults returns results, optionally filtered by tag.
func (c *Client) ListResults(ctx context.Context, tag string) ([]core.Result, error) {
	path := PathResults
	if tag != "" {
		path += "?tag=" + url.QueryEscape(tag)
	}

	var results []core.Result
	if err := c.do(ctx, http.MethodGet, path, nil, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetResult returns a single result with its tags.
func (c *Client) GetResult(ctx context.Context, id uint) (core.Result, error) {
	var result core.Result
	err := c.do(ctx, http.MethodGet, PathResults+"/"+strconv.FormatUint(uint64(id), 10), nil, &result)
	return result, err
}

// CreateResult registers a new result on the server.
func (c *Client) CreateResult(ctx context.Context, result core.Result) (core.Result, error) {
	var created core.Result
	err := c.do(ctx, http.MethodPost, PathResults, result, &created)
	return created, err
}

// ListTags returns the distinct tag names in use.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	var resp TagListResponse
	if err := c.do(ctx, http.MethodGet, PathTags, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// do sends a JSON request and decodes the JSON response into out when set.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var bodyReader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return &StatusError{
			Code:    httpResp.StatusCode,
			Message: strings.TrimSpace(string(bodyBytes)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ tagging.Service = (*Client)(nil)
