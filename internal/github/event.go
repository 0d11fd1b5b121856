// Package github defines the subset of the GitHub webhook wire format this
// service consumes.
package github

import (
	"encoding/json"
	"fmt"
)

// Webhook header names.
const (
	EventHeader     = "X-GitHub-Event"
	SignatureHeader = "X-Hub-Signature-256"
	DeliveryHeader  = "X-GitHub-Delivery"
)

// Event type values acted on.
const (
	EventPing   = "ping"
	EventIssues = "issues"

	// ActionOpened is the only issues action relayed.
	ActionOpened = "opened"
)

// IssueEvent is the decoded form of an "issues" webhook payload.
type IssueEvent struct {
	Action string `json:"action"`
	Issue  *struct {
		ID        int64  `json:"id"`
		Number    int    `json:"number"`
		Title     string `json:"title"`
		HTMLURL   string `json:"html_url"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	} `json:"issue"`
	Repository *struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Issue is the flattened record handed to the formatter and the ledger.
type Issue struct {
	ID         int64
	Number     int
	Title      string
	URL        string
	CreatedAt  string
	Repository string
	Author     string
	Labels     []string
}

// ParseIssueEvent decodes an issues payload and flattens it into an Issue.
// A payload missing the issue or repository object is a parse error; absent
// labels are tolerated.
func ParseIssueEvent(body []byte) (string, *Issue, error) {
	var ev IssueEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", nil, fmt.Errorf("decode issues payload: %w", err)
	}
	if ev.Issue == nil {
		return ev.Action, nil, fmt.Errorf("issues payload has no issue object")
	}
	if ev.Repository == nil {
		return ev.Action, nil, fmt.Errorf("issues payload has no repository object")
	}

	labels := make([]string, 0, len(ev.Issue.Labels))
	for _, l := range ev.Issue.Labels {
		labels = append(labels, l.Name)
	}

	return ev.Action, &Issue{
		ID:         ev.Issue.ID,
		Number:     ev.Issue.Number,
		Title:      ev.Issue.Title,
		URL:        ev.Issue.HTMLURL,
		CreatedAt:  ev.Issue.CreatedAt,
		Repository: ev.Repository.FullName,
		Author:     ev.Issue.User.Login,
		Labels:     labels,
	}, nil
}
