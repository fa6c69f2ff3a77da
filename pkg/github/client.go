package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"
	acceptHeader   = "application/vnd.github+json"
)

// Client publishes files through the GitHub contents API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise host or a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new GitHub client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Target names the file to create or update.
type Target struct {
	Owner         string `json:"owner" yaml:"owner"`
	Repo          string `json:"repo" yaml:"repo"`
	Branch        string `json:"branch" yaml:"branch"`
	FilePath      string `json:"filePath" yaml:"file_path"`
	CommitMessage string `json:"commitMessage,omitempty" yaml:"commit_message,omitempty"`
}

// Validate reports the first missing field.
func (t Target) Validate() error {
	switch {
	case t.Owner == "":
		return errors.New("repository owner is required")
	case t.Repo == "":
		return errors.New("repository name is required")
	case t.Branch == "":
		return errors.New("branch is required")
	case strings.Trim(t.FilePath, "/") == "":
		return errors.New("file path is required")
	}
	return nil
}

// Result describes a successful publish.
type Result struct {
	CommitURL  string
	ContentSHA string
	// Created is true when the file did not exist before.
	Created bool
}

// APIError is a non-2xx response. Message is the remote message, verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "GitHub API error: " + e.Message
}

// PutFile creates or updates target with content. The current blob sha is looked up first
// so that an existing file is updated in place; when the lookup fails the file is created.
func (c *Client) PutFile(ctx context.Context, token string, target Target, content []byte) (*Result, error) {
	if token == "" {
		return nil, errors.New("GitHub token is required")
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	endpoint := c.contentsURL(target)
	sha := c.currentSHA(ctx, token, endpoint, target.Branch)

	body := map[string]string{
		"message": target.CommitMessage,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  target.Branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}

	return &Result{
		CommitURL:  gjson.GetBytes(data, "commit.html_url").String(),
		ContentSHA: gjson.GetBytes(data, "content.sha").String(),
		Created:    sha == "",
	}, nil
}

// currentSHA returns the blob sha of the file on branch, or "" when it cannot be read.
func (c *Client) currentSHA(ctx context.Context, token, endpoint, branch string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?ref="+url.QueryEscape(branch), nil)
	if err != nil {
		return ""
	}
	c.authorize(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return gjson.GetBytes(data, "sha").String()
}

func (c *Client) contentsURL(t Target) string {
	segments := strings.Split(strings.Trim(t.FilePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		c.baseURL, url.PathEscape(t.Owner), url.PathEscape(t.Repo), strings.Join(segments, "/"))
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", acceptHeader)
}

func errorMessage(status int, body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	if len(bytes.TrimSpace(body)) > 0 {
		return string(body)
	}
	return http.StatusText(status)
}
