package domain

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAudit_AppendsWithoutMutatingInput(t *testing.T) {
	original := []AuditEntry{{Action: AuditActionManualReconciliation, ActorID: "u1", At: time.Now()}}

	updated := AppendAudit(original, AuditEntry{Action: AuditActionUndoReconciliation, ActorID: "u2", At: time.Now()})

	require.Len(t, updated, 2)
	assert.Len(t, original, 1, "input slice stays untouched")
	assert.Equal(t, AuditActionUndoReconciliation, updated[1].Action)
}

func TestAppendAudit_CapsAtMostRecentEntries(t *testing.T) {
	log := []AuditEntry{}
	for i := 0; i < AuditLogCap; i++ {
		log = AppendAudit(log, AuditEntry{ActorID: strconv.Itoa(i)})
	}
	require.Len(t, log, AuditLogCap)

	log = AppendAudit(log, AuditEntry{ActorID: "newest"})

	require.Len(t, log, AuditLogCap)
	assert.Equal(t, "1", log[0].ActorID, "oldest entry dropped")
	assert.Equal(t, "newest", log[AuditLogCap-1].ActorID)
}
