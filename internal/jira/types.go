package jira

// Issue represents a Jira issue from the REST API.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields requested for parent issues.
type IssueFields struct {
	Summary   string          `json:"summary"`
	Status    *StatusField    `json:"status"`
	IssueType *IssueTypeField `json:"issuetype"`
	Project   *ProjectField   `json:"project"`
	Links     []IssueLink     `json:"issuelinks"`
}

// StatusField represents a Jira issue status.
type StatusField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IssueTypeField represents a Jira issue type.
type IssueTypeField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProjectField represents a Jira project.
type ProjectField struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// IssueLink is one entry of an issue's issuelinks field. Exactly one of
// InwardIssue/OutwardIssue is set per entry, matching the REST shape: the
// populated side is the far end of the edge relative to the queried issue.
type IssueLink struct {
	ID           string        `json:"id,omitempty"`
	Type         LinkTypeField `json:"type"`
	InwardIssue  *LinkedIssue  `json:"inwardIssue,omitempty"`
	OutwardIssue *LinkedIssue  `json:"outwardIssue,omitempty"`
}

// LinkTypeField identifies a link type between two issues.
type LinkTypeField struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Inward  string `json:"inward,omitempty"`
	Outward string `json:"outward,omitempty"`
}

// LinkedIssue is the far end of an issue link. Jira embeds a reduced field
// set rather than the full issue.
type LinkedIssue struct {
	ID     string            `json:"id,omitempty"`
	Key    string            `json:"key"`
	Fields LinkedIssueFields `json:"fields"`
}

// LinkedIssueFields is the reduced field set carried on link entries.
type LinkedIssueFields struct {
	Summary string       `json:"summary"`
	Status  *StatusField `json:"status,omitempty"`
}

// SearchResult represents a Jira JQL search response.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// CreatedIssue is the response to a successful issue creation. Jira returns
// only identifiers; callers needing fields must fetch the issue separately.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}
