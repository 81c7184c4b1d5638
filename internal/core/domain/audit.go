package domain

import "time"

// AuditLogCap bounds the reconciliation audit log per statement line. The log
// is a ring: appending beyond the cap silently drops the oldest entries.
const AuditLogCap = 100

// Audit actions recorded on a statement line.
const (
	AuditActionAutomaticMatch       = "automatic_match"
	AuditActionManualReconciliation = "manual_reconciliation"
	AuditActionUndoReconciliation   = "undo_reconciliation"
)

// AuditEntry is one append-only record of a reconciliation state transition.
type AuditEntry struct {
	Action            string    `json:"action"`
	ActorID           string    `json:"actorID"`
	At                time.Time `json:"at"`
	Note              string    `json:"note,omitempty"`
	PreviousPayableID *string   `json:"previousPayableID,omitempty"`
	NewPayableID      *string   `json:"newPayableID,omitempty"`
	Score             *int      `json:"score,omitempty"`
	Criteria          []string  `json:"criteria,omitempty"`
}

// AppendAudit appends an entry and truncates the log to the most recent
// AuditLogCap entries.
func AppendAudit(log []AuditEntry, entry AuditEntry) []AuditEntry {
	appended := append(append([]AuditEntry(nil), log...), entry)
	if len(appended) > AuditLogCap {
		appended = appended[len(appended)-AuditLogCap:]
	}
	return appended
}
