package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementImport represents one ingested statement file.
// Note: ImportErrors holds the row-error payload as JSONB.
type StatementImport struct {
	ImportID      string          `db:"import_id"`
	TenantID      string          `db:"tenant_id"`
	BankAccountID string          `db:"bank_account_id"`
	FileName      string          `db:"file_name"`
	FileType      string          `db:"file_type"`
	TotalLines    int             `db:"total_lines"`
	TotalCredit   decimal.Decimal `db:"total_credit"`
	TotalDebit    decimal.Decimal `db:"total_debit"`
	PeriodStart   *time.Time      `db:"period_start"` // Nullable
	PeriodEnd     *time.Time      `db:"period_end"`   // Nullable
	Status        string          `db:"status"`
	ImportErrors  []byte          `db:"import_errors"` // JSONB
	AuditFields
}

// StatementLine represents one normalized statement entry.
// Note: AuditLog holds the reconciliation trail as JSONB.
type StatementLine struct {
	LineID        string           `db:"line_id"`
	ImportID      string           `db:"import_id"`
	TenantID      string           `db:"tenant_id"`
	BankAccountID string           `db:"bank_account_id"`
	Date          time.Time        `db:"entry_date"`
	Description   string           `db:"description"`
	Document      string           `db:"document"`
	Reference     string           `db:"reference"`
	Kind          string           `db:"kind"`
	Amount        decimal.Decimal  `db:"amount"`
	Balance       *decimal.Decimal `db:"balance"` // Nullable
	Reconciled    bool             `db:"reconciled"`
	PayableID     *string          `db:"payable_id"` // Nullable FK
	ReconciledAt  *time.Time       `db:"reconciled_at"`
	ReconciledBy  string           `db:"reconciled_by"`
	Source        string           `db:"source"`
	Note          string           `db:"note"`
	AuditLog      []byte           `db:"audit_log"` // JSONB
	AuditFields
}
