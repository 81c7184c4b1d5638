package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/conectcrm/conciliador/internal/core/domain"
	"github.com/conectcrm/conciliador/internal/statement"
)

// ImportStatementRequest carries the non-file fields of the multipart upload.
type ImportStatementRequest struct {
	BankAccountID string `form:"bankAccountId" binding:"required"`
}

// ImportStatementInput is the service-level input for one import call.
type ImportStatementInput struct {
	BankAccountID string
	FileName      string
	ContentType   string
	Content       []byte
}

// ImportSummaryResponse mirrors a persisted statement import.
type ImportSummaryResponse struct {
	ID            string          `json:"id"`
	BankAccountID string          `json:"bankAccountID"`
	FileName      string          `json:"fileName"`
	FileType      domain.FileType `json:"fileType"`
	TotalLines    int             `json:"totalLines"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	PeriodStart   *string         `json:"periodStart,omitempty"`
	PeriodEnd     *string         `json:"periodEnd,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ImportResume aggregates the totals of one import.
type ImportResume struct {
	TotalLines  int             `json:"totalLines"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	PeriodStart *string         `json:"periodStart,omitempty"`
	PeriodEnd   *string         `json:"periodEnd,omitempty"`
}

// ImportStatementResult is the full response of a successful import: the
// persisted summary, the aggregate resume, the collected row errors (capped)
// and a bounded preview of the created lines.
type ImportStatementResult struct {
	Import       ImportSummaryResponse `json:"importSummary"`
	Resume       ImportResume          `json:"resume"`
	Errors       []statement.RowError  `json:"errors"`
	PreviewLines []LineResponse        `json:"previewLines"`
}

// ToImportSummaryResponse converts a domain import to its response shape.
func ToImportSummaryResponse(imp *domain.StatementImport) ImportSummaryResponse {
	return ImportSummaryResponse{
		ID:            imp.ImportID,
		BankAccountID: imp.BankAccountID,
		FileName:      imp.FileName,
		FileType:      imp.FileType,
		TotalLines:    imp.TotalLines,
		TotalCredit:   imp.TotalCredit,
		TotalDebit:    imp.TotalDebit,
		PeriodStart:   dateOnly(imp.PeriodStart),
		PeriodEnd:     dateOnly(imp.PeriodEnd),
		CreatedAt:     imp.CreatedAt,
	}
}

func dateOnly(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
