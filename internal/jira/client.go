// Package jira provides HTTP access to the Jira REST API (v2).
//
// The client covers the operations the synchronization engine consumes:
// JQL search with pagination, issue creation, field updates, and typed
// issue links. Transient transport failures are retried with exponential
// backoff; everything else surfaces to the caller.
package jira

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ladderhq/ladder/internal/debug"
)

// MaxSearchResults bounds a single search invocation. Pagination beyond
// this is deliberately unsupported; narrow the JQL instead.
const MaxSearchResults = 1000

// searchPageSize is the page size requested per search call.
const searchPageSize = 100

const userAgent = "ladder/1.0"

// Client provides HTTP access to a Jira instance.
type Client struct {
	URL        string
	Username   string
	APIToken   string
	HTTPClient *http.Client
}

// NewClient creates a new Jira client.
func NewClient(url, username, apiToken string) *Client {
	return &Client{
		URL:      strings.TrimSuffix(url, "/"),
		Username: username,
		APIToken: apiToken,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SearchIssues queries Jira using JQL and returns matching issues, handling
// pagination up to limit results. A non-positive limit, or one above
// MaxSearchResults, is treated as MaxSearchResults.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, limit int) ([]Issue, error) {
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	var allIssues []Issue
	startAt := 0

	for {
		pageSize := searchPageSize
		if remaining := limit - len(allIssues); remaining < pageSize {
			pageSize = remaining
		}

		params := url.Values{
			"jql":        {jql},
			"fields":     {strings.Join(fields, ",")},
			"startAt":    {fmt.Sprintf("%d", startAt)},
			"maxResults": {fmt.Sprintf("%d", pageSize)},
		}

		apiURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.URL, params.Encode())

		body, err := c.doRequest(ctx, "GET", apiURL, nil)
		if err != nil {
			return nil, fmt.Errorf("search issues: %w", err)
		}

		var result SearchResult
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("parse search response: %w", err)
		}

		allIssues = append(allIssues, result.Issues...)

		if len(allIssues) >= limit || len(result.Issues) == 0 {
			break
		}
		if startAt+len(result.Issues) >= result.Total {
			break
		}
		startAt += len(result.Issues)
	}

	if len(allIssues) > limit {
		allIssues = allIssues[:limit]
	}
	return allIssues, nil
}

// CreateIssue creates a new issue in Jira and returns its identifiers.
// fields should include "project", "summary", "issuetype", and optionally
// other fields; they pass through to the API verbatim.
func (c *Client) CreateIssue(ctx context.Context, fields map[string]interface{}) (*CreatedIssue, error) {
	payload := map[string]interface{}{"fields": fields}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue", c.URL)

	body, err := c.doRequest(ctx, "POST", apiURL, data)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	var created CreatedIssue
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}

	return &created, nil
}

// UpdateIssueFields updates fields on an existing Jira issue by key.
func (c *Client) UpdateIssueFields(ctx context.Context, key string, fields map[string]interface{}) error {
	payload := map[string]interface{}{"fields": fields}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal update request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s", c.URL, url.PathEscape(key))

	_, err = c.doRequest(ctx, "PUT", apiURL, data)
	if err != nil {
		return fmt.Errorf("update issue %s: %w", key, err)
	}

	return nil
}

// CreateIssueLink creates a typed link between two issues. typeID is the
// link type's opaque identifier, not its display name.
func (c *Client) CreateIssueLink(ctx context.Context, typeID, inwardKey, outwardKey string) error {
	payload := map[string]interface{}{
		"type":         map[string]interface{}{"id": typeID},
		"inwardIssue":  map[string]interface{}{"key": inwardKey},
		"outwardIssue": map[string]interface{}{"key": outwardKey},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal link request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/rest/api/2/issueLink", c.URL)

	_, err = c.doRequest(ctx, "POST", apiURL, data)
	if err != nil {
		return fmt.Errorf("link %s to %s: %w", inwardKey, outwardKey, err)
	}

	return nil
}

// BrowseURL returns the human-facing URL for an issue key.
func (c *Client) BrowseURL(key string) string {
	return fmt.Sprintf("%s/browse/%s", c.URL, key)
}

// ExtractIssueKey extracts the issue key from a browse URL.
// For example, "https://jira.example.com/browse/SIT-123" returns "SIT-123".
// Returns "" when the URL has no /browse/ segment.
func ExtractIssueKey(browseURL string) string {
	idx := strings.LastIndex(browseURL, "/browse/")
	if idx == -1 {
		return ""
	}
	return browseURL[idx+len("/browse/"):]
}

// AllowInsecureTLS disables certificate verification. Needed for on-prem
// instances running with self-signed certificates.
func (c *Client) AllowInsecureTLS() {
	c.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
}

// doRequest executes an authenticated HTTP request and returns the response
// body. Transient failures are retried per newTransientBackoff.
func (c *Client) doRequest(ctx context.Context, method, apiURL string, body []byte) ([]byte, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("jira URL not configured")
	}
	if c.APIToken == "" {
		return nil, fmt.Errorf("jira API token not configured")
	}

	var respBody []byte
	attempt := func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, bodyReader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}

		c.setAuth(req)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			if isRetryableNetError(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			// Connection dropped mid-body; worth another attempt.
			return fmt.Errorf("read response: %w", err)
		}

		// PUT returns 204 No Content on success
		if resp.StatusCode == http.StatusNoContent {
			respBody = nil
			return nil
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := fmt.Errorf("jira API returned %d: %s", resp.StatusCode, string(data))
			if isRetryableStatus(resp.StatusCode) {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}

		respBody = data
		return nil
	}

	notify := func(err error, wait time.Duration) {
		debug.Logf("jira: retrying %s %s in %s: %v\n", method, apiURL, wait, err)
	}

	if err := backoff.RetryNotify(attempt, newTransientBackoff(ctx), notify); err != nil {
		return nil, err
	}
	return respBody, nil
}

// setAuth sets the appropriate authentication header on the request.
func (c *Client) setAuth(req *http.Request) {
	isCloud := strings.Contains(c.URL, "atlassian.net")
	if (isCloud || c.Username != "") && c.Username != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.Username + ":" + c.APIToken))
		req.Header.Set("Authorization", "Basic "+auth)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.APIToken)
	}
}
