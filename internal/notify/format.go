package notify

import (
	"fmt"
	"strings"

	"issuerelay/internal/github"
)

const (
	maxTitleLen = 80
	maxLabelLen = 20
	maxLabels   = 6
)

// FormatIssue renders an issue as a Telegram HTML message. Pure and
// deterministic: same issue in, same string out.
func FormatIssue(issue *github.Issue) string {
	title := truncate(escapeHTML(issue.Title), maxTitleLen)

	labelsLine := ""
	if len(issue.Labels) > 0 {
		labels := issue.Labels
		if len(labels) > maxLabels {
			labels = labels[:maxLabels]
		}
		safe := make([]string, 0, len(labels))
		for _, name := range labels {
			safe = append(safe, "<code>"+truncate(escapeHTML(name), maxLabelLen)+"</code>")
		}
		labelsLine = "\n🏷️ <b>Labels:</b> " + strings.Join(safe, ", ")
	}

	return fmt.Sprintf(`🆕 <b>New Issue</b>

📋 <b>Title:</b> %s
👤 <b>Author:</b> @%s
📦 <b>Repository:</b> <code>%s</code>
🔗 <b>Link:</b> <a href="%s">#%d</a>%s`,
		title, issue.Author, issue.Repository, issue.URL, issue.Number, labelsLine)
}

// FormatStartup renders the startup announcement listing the monitored
// repositories (first five, then a count) and the ledger location.
func FormatStartup(repos []string, dbPath string) string {
	shown := repos
	if len(shown) > 5 {
		shown = shown[:5]
	}
	lines := make([]string, 0, len(shown)+1)
	for _, repo := range shown {
		lines = append(lines, "• <code>"+escapeHTML(repo)+"</code>")
	}
	if len(repos) > 5 {
		lines = append(lines, fmt.Sprintf("• ... and %d more", len(repos)-5))
	}

	return fmt.Sprintf(`🚀 <b>Issue Relay Started</b>

⚡ <b>Mode:</b> Real-time webhooks
📦 <b>Monitoring %d repositories:</b>

%s

💾 <b>Database:</b> %s`,
		len(repos), strings.Join(lines, "\n"), dbPath)
}

// escapeHTML escapes the characters significant to Telegram's HTML parse
// mode in user-controlled text.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// truncate shortens s to max characters, replacing the tail with "..." when
// it exceeds the limit. Operates on runes so multibyte titles don't get cut
// mid-character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
