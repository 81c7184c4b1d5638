package models

import "time"

// AuditFields holds standard audit information for persisted entities.
type AuditFields struct {
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}
