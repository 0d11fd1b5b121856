package github

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const issuesPayload = `{
  "action": "opened",
  "issue": {
    "id": 3052745893,
    "number": 512,
    "title": "Typo in getting-started guide",
    "html_url": "https://github.com/kubernetes/website/issues/512",
    "created_at": "2026-08-30T09:58:11Z",
    "user": {"login": "octocat"},
    "labels": [{"name": "kind/bug"}, {"name": "good first issue"}]
  },
  "repository": {"full_name": "kubernetes/website"}
}`

func TestParseIssueEvent(t *testing.T) {
	action, issue, err := ParseIssueEvent([]byte(issuesPayload))
	require.NoError(t, err)
	require.Equal(t, "opened", action)

	require.Equal(t, int64(3052745893), issue.ID)
	require.Equal(t, 512, issue.Number)
	require.Equal(t, "Typo in getting-started guide", issue.Title)
	require.Equal(t, "https://github.com/kubernetes/website/issues/512", issue.URL)
	require.Equal(t, "2026-08-30T09:58:11Z", issue.CreatedAt)
	require.Equal(t, "kubernetes/website", issue.Repository)
	require.Equal(t, "octocat", issue.Author)
	require.Equal(t, []string{"kind/bug", "good first issue"}, issue.Labels)
}

func TestParseIssueEventNoLabels(t *testing.T) {
	payload := `{
	  "action": "opened",
	  "issue": {
	    "id": 1, "number": 2, "title": "t",
	    "html_url": "u", "created_at": "c",
	    "user": {"login": "l"}
	  },
	  "repository": {"full_name": "o/r"}
	}`

	_, issue, err := ParseIssueEvent([]byte(payload))
	require.NoError(t, err)
	require.Empty(t, issue.Labels)
}

func TestParseIssueEventMissingObjects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing issue", `{"action":"opened","repository":{"full_name":"o/r"}}`},
		{"missing repository", `{"action":"opened","issue":{"id":1}}`},
		{"not JSON", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseIssueEvent([]byte(tt.payload))
			require.Error(t, err)
		})
	}
}
