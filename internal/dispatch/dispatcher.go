package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"issuerelay/internal/config"
	"issuerelay/internal/github"
	"issuerelay/internal/log"
	"issuerelay/internal/notify"
)

// IssueLedger is the dedup ledger consulted before and written after delivery.
type IssueLedger interface {
	Contains(ctx context.Context, issueID int64, repository string) (bool, error)
	Insert(ctx context.Context, issueID int64, repository, createdAt string) error
}

// Notifier delivers a rendered message to the fixed destination.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Delivery is one inbound webhook request, raw bytes plus the headers the
// dispatcher cares about.
type Delivery struct {
	Body       []byte
	Signature  string
	Event      string
	DeliveryID string
}

// Dispatcher runs the per-request pipeline:
// verify -> parse -> scope-filter -> dedup-check -> format -> deliver -> record.
type Dispatcher struct {
	secret  string
	allow   config.Allowlist
	ledger  IssueLedger
	channel Notifier
	logger  *slog.Logger

	openModeWarn sync.Once
	locks        keyedMutex
}

// New creates a Dispatcher. The secret and allow-list are fixed for the
// process lifetime.
func New(secret string, allow config.Allowlist, ledger IssueLedger, channel Notifier) *Dispatcher {
	return &Dispatcher{
		secret:  secret,
		allow:   allow,
		ledger:  ledger,
		channel: channel,
		logger:  log.WithComponent("dispatch"),
	}
}

// Process handles one webhook delivery and returns the terminal outcome.
// All errors are absorbed here: failures surface as an Outcome, never as a
// panic or a crash of the handling goroutine.
func (d *Dispatcher) Process(ctx context.Context, del Delivery) Outcome {
	logger := d.logger.With("delivery_id", del.DeliveryID, "event", del.Event)

	if d.secret == "" {
		d.openModeWarn.Do(func() {
			logger.Warn("no webhook secret configured - skipping signature verification")
		})
	}
	if !VerifySignature(del.Body, del.Signature, d.secret) {
		logger.Warn("invalid webhook signature")
		return OutcomeUnauthorized
	}

	if !json.Valid(del.Body) {
		logger.Warn("invalid JSON payload")
		return OutcomeMalformed
	}

	if del.Event == github.EventPing {
		logger.Info("received webhook ping")
		return OutcomePing
	}

	if del.Event != github.EventIssues {
		logger.Info("ignoring event")
		return OutcomeEventIgnored
	}

	action, issue, err := github.ParseIssueEvent(del.Body)
	if err != nil {
		logger.Warn("malformed issues payload", "error", err)
		return OutcomeMalformed
	}

	if action != github.ActionOpened {
		logger.Info("ignoring issues action", "action", action)
		return OutcomeEventIgnored
	}

	issueLogger := logger.With("repository", issue.Repository, "issue", issue.Number)

	// Scope filter runs before the dedup check so unmonitored repositories
	// never pollute the ledger.
	if !d.allow.Contains(issue.Repository) {
		issueLogger.Info("ignoring issue from unmonitored repository")
		return OutcomeOutOfScope
	}

	// Serialize check -> send -> record per (issue_id, repository) so two
	// concurrent redeliveries of the same issue cannot both pass the dedup
	// check and double-notify.
	unlock := d.locks.lock(issueKey(issue))
	defer unlock()

	tracked, err := d.ledger.Contains(ctx, issue.ID, issue.Repository)
	if err != nil {
		issueLogger.Error("ledger read failed", "error", err)
		return OutcomeInternalError
	}
	if tracked {
		issueLogger.Info("issue already tracked")
		return OutcomeDuplicate
	}

	message := notify.FormatIssue(issue)
	if err := d.channel.Send(ctx, message); err != nil {
		// Ledger deliberately left untouched: a future redelivery of the
		// same webhook gets another chance to notify.
		issueLogger.Error("failed to send notification", "error", err)
		return OutcomeDeliveryFailed
	}

	if err := d.ledger.Insert(ctx, issue.ID, issue.Repository, issue.CreatedAt); err != nil {
		issueLogger.Error("ledger write failed after delivery", "error", err)
		return OutcomeInternalError
	}

	issueLogger.Info("notification sent")
	return OutcomeDelivered
}

func issueKey(issue *github.Issue) string {
	// Repository disambiguates even though the issue id is already global.
	return issue.Repository + "#" + strconv.FormatInt(issue.ID, 10)
}
