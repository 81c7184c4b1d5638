package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payable represents an accounts-payable record read for candidate scoring.
// The reconciliation engine never writes to this table.
type Payable struct {
	PayableID      string          `db:"payable_id"`
	TenantID       string          `db:"tenant_id"`
	Status         string          `db:"status"`
	Number         string          `db:"number"`
	DocumentNumber string          `db:"document_number"`
	Description    string          `db:"description"`
	SupplierName   string          `db:"supplier_name"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	PaidAt         *time.Time      `db:"paid_at"` // Nullable
	DueAt          *time.Time      `db:"due_at"`  // Nullable
	BankAccountID  string          `db:"bank_account_id"`
	AuditFields
}
