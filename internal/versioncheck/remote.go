package versioncheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/projgen/cli/internal/version"
)

// DefaultTimeout bounds every GitHub API request.
const DefaultTimeout = 10 * time.Second

// WebAPIError reports a non-200 response from the GitHub API.
type WebAPIError struct {
	URL        string
	StatusCode int
}

// Error implements the error interface.
func (e *WebAPIError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client queries the GitHub REST API for the state of a repository branch.
type Client struct {
	apiURL     string
	repository string
	branch     string
	http       *http.Client
}

// NewClient creates a client for repository ("owner/name") and branch. A nil
// httpClient gets one with DefaultTimeout.
func NewClient(apiURL, repository, branch string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		repository: repository,
		branch:     branch,
		http:       httpClient,
	}
}

// Repository returns the "owner/name" the client queries.
func (c *Client) Repository() string {
	return c.repository
}

// Branch returns the branch the client queries.
func (c *Client) Branch() string {
	return c.branch
}

// RemoteCommit returns the latest commit on the branch.
func (c *Client) RemoteCommit(ctx context.Context) (Commit, error) {
	body, err := c.get(ctx, "repos", c.repository, "commits", c.branch)
	if err != nil {
		return Commit{}, err
	}

	sha := gjson.GetBytes(body, "sha")
	if !sha.Exists() || sha.String() == "" {
		return Commit{}, fmt.Errorf("commit response has no sha")
	}

	date, err := FixTimestamp(gjson.GetBytes(body, "commit.author.date").String())
	if err != nil {
		return Commit{}, fmt.Errorf("commit %s: %w", sha.String(), err)
	}

	return Commit{Hash: sha.String(), Date: date}, nil
}

// CommitsBehind returns how many commits remote is ahead of local.
func (c *Client) CommitsBehind(ctx context.Context, local, remote string) (int, error) {
	body, err := c.get(ctx, "repos", c.repository, "compare", local+"..."+remote)
	if err != nil {
		return 0, err
	}

	total := gjson.GetBytes(body, "total_commits")
	if !total.Exists() {
		return 0, fmt.Errorf("compare response has no total_commits")
	}
	return int(total.Int()), nil
}

// get fetches apiURL/elems... and returns the body of a 200 JSON response.
func (c *Client) get(ctx context.Context, elems ...string) ([]byte, error) {
	endpoint, err := url.JoinPath(c.apiURL, elems...)
	if err != nil {
		return nil, fmt.Errorf("building url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "projgen/"+version.Get().Semver())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &WebAPIError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("GET %s: response is not valid JSON", endpoint)
	}
	return body, nil
}
