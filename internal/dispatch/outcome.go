package dispatch

// Outcome is the terminal result of processing one webhook delivery. The
// dispatcher resolves every request to exactly one variant; the HTTP layer
// maps variants to status codes.
type Outcome int

const (
	// OutcomeDelivered: notification sent and recorded in the ledger.
	OutcomeDelivered Outcome = iota

	// OutcomePing: connectivity-check event, acknowledged immediately.
	OutcomePing

	// OutcomeUnauthorized: signature verification failed.
	OutcomeUnauthorized

	// OutcomeMalformed: body is not valid JSON or lacks required fields.
	OutcomeMalformed

	// OutcomeEventIgnored: event type or action is not "issue opened".
	OutcomeEventIgnored

	// OutcomeOutOfScope: repository is not in the monitored allow-list.
	OutcomeOutOfScope

	// OutcomeDuplicate: issue already present in the ledger.
	OutcomeDuplicate

	// OutcomeDeliveryFailed: channel send failed; ledger left unchanged so
	// a redelivery can retry. Still acknowledged to the sender.
	OutcomeDeliveryFailed

	// OutcomeInternalError: unexpected fault; no partial ledger writes.
	OutcomeInternalError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomePing:
		return "ping"
	case OutcomeUnauthorized:
		return "unauthorized"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeEventIgnored:
		return "event_ignored"
	case OutcomeOutOfScope:
		return "out_of_scope"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	case OutcomeInternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}
