package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/conectcrm/conciliador/internal/statement"
)

// FileType is the source format of a statement import.
type FileType string

const (
	FileTypeCSV FileType = "csv"
	FileTypeOFX FileType = "ofx"
)

// LineKind is the direction of a statement line.
type LineKind string

const (
	LineKindCredit LineKind = "credit"
	LineKindDebit  LineKind = "debit"
)

// ReconciliationSource records whether a line was reconciled by the batch
// matcher or by a user.
type ReconciliationSource string

const (
	SourceAutomatic ReconciliationSource = "automatic"
	SourceManual    ReconciliationSource = "manual"
)

// ImportStatusProcessed is the terminal status of a successful import.
const ImportStatusProcessed = "processed"

// StatementImport is one ingested statement file. Totals and period bounds are
// snapshots taken at import time and never recomputed.
type StatementImport struct {
	ImportID      string               `json:"importID"`
	TenantID      string               `json:"tenantID"`
	BankAccountID string               `json:"bankAccountID"`
	FileName      string               `json:"fileName"`
	FileType      FileType             `json:"fileType"`
	TotalLines    int                  `json:"totalLines"`
	TotalCredit   decimal.Decimal      `json:"totalCredit"`
	TotalDebit    decimal.Decimal      `json:"totalDebit"`
	PeriodStart   *time.Time           `json:"periodStart"`
	PeriodEnd     *time.Time           `json:"periodEnd"`
	Status        string               `json:"status"`
	ImportErrors  []statement.RowError `json:"importErrors"`
	AuditFields
}

// StatementLine is one normalized statement entry owned by an import. It is
// created in bulk at import time and mutated only through reconciliation.
type StatementLine struct {
	LineID        string          `json:"lineID"`
	ImportID      string          `json:"importID"`
	TenantID      string          `json:"tenantID"`
	BankAccountID string          `json:"bankAccountID"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Document      string          `json:"document"`
	Reference     string          `json:"reference"`
	Kind          LineKind        `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       *decimal.Decimal `json:"balance"`

	Reconciled   bool                 `json:"reconciled"`
	PayableID    *string              `json:"payableID"`
	ReconciledAt *time.Time           `json:"reconciledAt"`
	ReconciledBy string               `json:"reconciledBy"`
	Source       ReconciliationSource `json:"source"`
	Note         string               `json:"note"`
	AuditLog     []AuditEntry         `json:"auditLog"`

	// Projection of the linked payable, populated on reads.
	Payable *Payable `json:"payable,omitempty"`

	AuditFields
}
