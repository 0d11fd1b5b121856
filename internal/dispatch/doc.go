// Package dispatch turns raw webhook deliveries into notifications.
//
// Each delivery walks a fixed pipeline and stops at the first applicable
// terminal outcome:
//
//	verify signature -> validate JSON -> ping? -> issue opened? ->
//	repository monitored? -> already notified? -> send -> record
//
// The ordering is deliberate. Authentication comes before any parsing.
// The scope filter runs before the dedup check so unmonitored repositories
// never enter the ledger. The ledger is written only after a confirmed send:
// a failed delivery leaves no trace, so a redelivery or manual replay of the
// same event gets another chance. The webhook sender is answered 200 even
// when delivery fails; asking GitHub to retry would only re-derive the same
// outcome.
//
// The check-send-record sequence is serialized per (issue id, repository)
// key, which keeps concurrent redeliveries of the same issue from
// double-notifying while leaving unrelated issues free to proceed in
// parallel.
package dispatch
