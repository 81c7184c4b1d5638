package dto

import (
	"github.com/shopspring/decimal"
)

// CandidateResponse is one scored payable candidate for a statement line.
type CandidateResponse struct {
	PayableID      string          `json:"payableID"`
	Number         string          `json:"number"`
	DocumentNumber string          `json:"documentNumber,omitempty"`
	Description    string          `json:"description"`
	SupplierName   string          `json:"supplierName,omitempty"`
	PaidDate       *string         `json:"paidDate,omitempty"`
	DueDate        *string         `json:"dueDate,omitempty"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	PaidValue      decimal.Decimal `json:"paidValue"`
	Score          int             `json:"score"`
	Criteria       []string        `json:"criteria"`
}

// MatchRunRequest binds an automatic matching call.
type MatchRunRequest struct {
	ToleranceDays *int `json:"toleranceDays" binding:"omitempty,min=0,max=10"`
}

// MatchOutcome reports the result for one line accepted (or failed) during a
// batch matching run.
type MatchOutcome struct {
	LineID    string   `json:"lineID"`
	PayableID string   `json:"payableID,omitempty"`
	Score     int      `json:"score,omitempty"`
	Criteria  []string `json:"criteria,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// MatchRunResult summarizes one automatic matching run over an import.
type MatchRunResult struct {
	ImportID string         `json:"importID"`
	Analyzed int            `json:"analyzed"`
	Matched  int            `json:"matched"`
	Pending  int            `json:"pending"`
	Outcomes []MatchOutcome `json:"outcomes"`
}
