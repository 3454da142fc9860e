package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestSearchIssuesPagination(t *testing.T) {
	page := func(startAt, total int, keys ...string) string {
		issues := make([]map[string]interface{}, len(keys))
		for i, k := range keys {
			issues[i] = map[string]interface{}{
				"id":     fmt.Sprintf("1000%d", i),
				"key":    k,
				"fields": map[string]interface{}{"summary": "ST: SIT - " + k},
			}
		}
		data, _ := json.Marshal(map[string]interface{}{
			"startAt":    startAt,
			"maxResults": 2,
			"total":      total,
			"issues":     issues,
		})
		return string(data)
	}

	var gotStartAts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("path = %q, want /rest/api/2/search", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "issuetype,summary,issuelinks" {
			t.Errorf("fields param = %q", got)
		}
		startAt := r.URL.Query().Get("startAt")
		gotStartAts = append(gotStartAts, startAt)
		switch startAt {
		case "0":
			fmt.Fprint(w, page(0, 3, "FEAT-1", "FEAT-2"))
		case "2":
			fmt.Fprint(w, page(2, 3, "FEAT-3"))
		default:
			t.Errorf("unexpected startAt %q", startAt)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	issues, err := c.SearchIssues(context.Background(), "project = FEAT", []string{"issuetype", "summary", "issuelinks"}, 0)
	if err != nil {
		t.Fatalf("SearchIssues() error = %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3", len(issues))
	}
	if issues[2].Key != "FEAT-3" {
		t.Errorf("last key = %q, want FEAT-3", issues[2].Key)
	}
	if len(gotStartAts) != 2 || gotStartAts[0] != "0" || gotStartAts[1] != "2" {
		t.Errorf("startAt sequence = %v, want [0 2]", gotStartAts)
	}
}

func TestSearchIssuesLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Server ignores maxResults and returns five issues; the client
		// must still enforce its own bound.
		issues := make([]map[string]interface{}, 5)
		for i := range issues {
			issues[i] = map[string]interface{}{"key": fmt.Sprintf("FEAT-%d", i+1)}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"startAt": 0, "maxResults": 5, "total": 5, "issues": issues,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	issues, err := c.SearchIssues(context.Background(), "project = FEAT", []string{"summary"}, 3)
	if err != nil {
		t.Fatalf("SearchIssues() error = %v", err)
	}
	if len(issues) != 3 {
		t.Errorf("got %d issues, want limit of 3", len(issues))
	}
}

func TestSearchIssuesEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"startAt":0,"maxResults":100,"total":0,"issues":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	issues, err := c.SearchIssues(context.Background(), "project = NONE", []string{"summary"}, 0)
	if err != nil {
		t.Fatalf("SearchIssues() error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("got %d issues, want 0", len(issues))
	}
}

func TestCreateIssue(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/rest/api/2/issue" {
			t.Errorf("%s %s, want POST /rest/api/2/issue", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"10500","key":"EPIC-42","self":"https://jira.example.com/rest/api/2/issue/10500"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	created, err := c.CreateIssue(context.Background(), map[string]interface{}{
		"project":   map[string]interface{}{"key": "EPIC"},
		"summary":   "SIT: Feature A",
		"issuetype": map[string]interface{}{"name": "Epic"},
	})
	if err != nil {
		t.Fatalf("CreateIssue() error = %v", err)
	}
	if created.Key != "EPIC-42" {
		t.Errorf("created.Key = %q, want EPIC-42", created.Key)
	}

	fields, ok := gotPayload["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload missing fields wrapper: %v", gotPayload)
	}
	if fields["summary"] != "SIT: Feature A" {
		t.Errorf("payload summary = %v", fields["summary"])
	}
}

func TestCreateIssueError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errorMessages":["Field 'issuetype' is required"]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	_, err := c.CreateIssue(context.Background(), map[string]interface{}{"summary": "x"})
	if err == nil {
		t.Fatal("CreateIssue() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "issuetype") {
		t.Errorf("error %q should carry status and body", err)
	}
}

func TestUpdateIssueFields(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PUT" || r.URL.Path != "/rest/api/2/issue/STORY-7" {
			t.Errorf("%s %s, want PUT /rest/api/2/issue/STORY-7", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	err := c.UpdateIssueFields(context.Background(), "STORY-7", map[string]interface{}{
		"customfield_11501": "EPIC-3",
	})
	if err != nil {
		t.Fatalf("UpdateIssueFields() error = %v", err)
	}

	fields := gotPayload["fields"].(map[string]interface{})
	if fields["customfield_11501"] != "EPIC-3" {
		t.Errorf("payload customfield_11501 = %v, want EPIC-3", fields["customfield_11501"])
	}
}

func TestCreateIssueLink(t *testing.T) {
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/rest/api/2/issueLink" {
			t.Errorf("%s %s, want POST /rest/api/2/issueLink", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	if err := c.CreateIssueLink(context.Background(), "10502", "EPIC-42", "FEAT-1"); err != nil {
		t.Fatalf("CreateIssueLink() error = %v", err)
	}

	linkType := gotPayload["type"].(map[string]interface{})
	if linkType["id"] != "10502" {
		t.Errorf("type.id = %v, want 10502", linkType["id"])
	}
	inward := gotPayload["inwardIssue"].(map[string]interface{})
	if inward["key"] != "EPIC-42" {
		t.Errorf("inwardIssue.key = %v, want EPIC-42", inward["key"])
	}
	outward := gotPayload["outwardIssue"].(map[string]interface{})
	if outward["key"] != "FEAT-1" {
		t.Errorf("outwardIssue.key = %v, want FEAT-1", outward["key"])
	}
}

func TestAuthHeaders(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		username string
		want     string
	}{
		{
			name:     "username uses basic auth",
			url:      "https://jira.example.com",
			username: "sit-bot",
			// base64("sit-bot:secret")
			want: "Basic c2l0LWJvdDpzZWNyZXQ=",
		},
		{
			name: "token only uses bearer",
			url:  "https://jira.example.com",
			want: "Bearer secret",
		},
		{
			name:     "cloud with username uses basic auth",
			url:      "https://acme.atlassian.net",
			username: "sit-bot",
			want:     "Basic c2l0LWJvdDpzZWNyZXQ=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.url, tt.username, "secret")
			req, _ := http.NewRequest("GET", tt.url, nil)
			c.setAuth(req)
			if got := req.Header.Get("Authorization"); got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDoRequestRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"startAt":0,"maxResults":100,"total":0,"issues":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	_, err := c.SearchIssues(context.Background(), "project = FEAT", []string{"summary"}, 0)
	if err != nil {
		t.Fatalf("SearchIssues() error = %v after retries", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestDoRequestNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errorMessages":["bad jql"]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", "token")
	_, err := c.SearchIssues(context.Background(), "bogus ~~~", []string{"summary"}, 0)
	if err == nil {
		t.Fatal("SearchIssues() error = nil, want error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on 400)", got)
	}
}

func TestClientRequiresConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		client  *Client
		wantErr string
	}{
		{"missing URL", NewClient("", "", "token"), "jira URL not configured"},
		{"missing token", NewClient("https://jira.example.com", "u", ""), "jira API token not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.client.SearchIssues(context.Background(), "x", []string{"summary"}, 0)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestBrowseURL(t *testing.T) {
	c := NewClient("https://jira.example.com/", "", "token")
	if got := c.BrowseURL("EPIC-42"); got != "https://jira.example.com/browse/EPIC-42" {
		t.Errorf("BrowseURL() = %q", got)
	}
}

func TestExtractIssueKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://jira.example.com/browse/SIT-123", "SIT-123"},
		{"https://company.atlassian.net/browse/PROJ-9", "PROJ-9"},
		{"https://jira.example.com/issues/SIT-123", ""},
		{"SIT-123", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractIssueKey(tt.url); got != tt.want {
			t.Errorf("ExtractIssueKey(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
