package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/conectcrm/conciliador/internal/core/domain"
)

// LineResponse is the full view of one statement line, including the linked
// payable projection and the reconciliation audit trail.
type LineResponse struct {
	ID            string              `json:"id"`
	ImportID      string              `json:"importID"`
	Date          string              `json:"date"`
	Description   string              `json:"description"`
	Document      string              `json:"document,omitempty"`
	Reference     string              `json:"reference,omitempty"`
	Kind          domain.LineKind     `json:"kind"`
	Value         decimal.Decimal     `json:"value"`
	Balance       *decimal.Decimal    `json:"balance,omitempty"`
	Reconciled    bool                `json:"reconciled"`
	PayableID     *string             `json:"payableID,omitempty"`
	PayableNumber string              `json:"payableNumber,omitempty"`
	PayableDesc   string              `json:"payableDescription,omitempty"`
	SupplierName  string              `json:"supplierName,omitempty"`
	ReconciledAt  *time.Time          `json:"reconciledAt,omitempty"`
	ReconciledBy  string              `json:"reconciledBy,omitempty"`
	Source        string              `json:"source,omitempty"`
	Note          string              `json:"note,omitempty"`
	AuditTrail    []domain.AuditEntry `json:"auditTrail"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ReconcileLineRequest binds a manual reconciliation call.
type ReconcileLineRequest struct {
	PayableID string `json:"payableId" binding:"required"`
	Note      string `json:"note" binding:"omitempty,notblank,max=500"`
}

// UndoReconciliationRequest binds an undo call.
type UndoReconciliationRequest struct {
	Note string `json:"note" binding:"omitempty,notblank,max=500"`
}

// ToLineResponse converts a domain line (with optional payable projection) to
// its response shape.
func ToLineResponse(line *domain.StatementLine) LineResponse {
	resp := LineResponse{
		ID:           line.LineID,
		ImportID:     line.ImportID,
		Date:         line.Date.Format("2006-01-02"),
		Description:  line.Description,
		Document:     line.Document,
		Reference:    line.Reference,
		Kind:         line.Kind,
		Value:        line.Amount,
		Balance:      line.Balance,
		Reconciled:   line.Reconciled,
		PayableID:    line.PayableID,
		ReconciledAt: line.ReconciledAt,
		ReconciledBy: line.ReconciledBy,
		Source:       string(line.Source),
		Note:         line.Note,
		AuditTrail:   line.AuditLog,
		CreatedAt:    line.CreatedAt,
	}
	if resp.AuditTrail == nil {
		resp.AuditTrail = []domain.AuditEntry{}
	}
	if line.Payable != nil {
		resp.PayableNumber = line.Payable.DisplayNumber()
		resp.PayableDesc = line.Payable.Description
		resp.SupplierName = line.Payable.SupplierName
	}
	return resp
}
