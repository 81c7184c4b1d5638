package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PayableStatus values mirror the payables ledger. Only paid payables are
// eligible for reconciliation.
type PayableStatus string

const (
	PayableStatusPaid    PayableStatus = "paid"
	PayableStatusPending PayableStatus = "pending"
)

// Payable is an accounts-payable record from the payables ledger. The engine
// reads it for candidate scoring and links statement lines to it by id; it
// never mutates amount or status fields.
type Payable struct {
	PayableID      string          `json:"payableID"`
	TenantID       string          `json:"tenantID"`
	Status         PayableStatus   `json:"status"`
	Number         string          `json:"number"`
	DocumentNumber string          `json:"documentNumber"`
	Description    string          `json:"description"`
	SupplierName   string          `json:"supplierName"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PaidAt         *time.Time      `json:"paidAt"`
	DueAt          *time.Time      `json:"dueAt"`
	BankAccountID  string          `json:"bankAccountID"` // empty when the payable has no account assigned
	AuditFields
}

// DisplayNumber returns the number shown to users, falling back to the
// document number and then to a short id-derived code.
func (p Payable) DisplayNumber() string {
	if n := strings.TrimSpace(p.Number); n != "" {
		return n
	}
	if n := strings.TrimSpace(p.DocumentNumber); n != "" {
		return n
	}
	id := p.PayableID
	if len(id) > 8 {
		id = id[:8]
	}
	return "CP-" + strings.ToUpper(id)
}

// SettledAmount is the value a statement line is compared against: the paid
// amount when one was recorded, otherwise the payable total.
func (p Payable) SettledAmount() decimal.Decimal {
	if p.PaidAmount.IsPositive() {
		return p.PaidAmount.Round(2)
	}
	return p.TotalAmount.Round(2)
}
