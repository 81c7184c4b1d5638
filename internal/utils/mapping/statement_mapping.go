package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/conectcrm/conciliador/internal/core/domain"
	"github.com/conectcrm/conciliador/internal/models"
	"github.com/conectcrm/conciliador/internal/statement"
)

// ToModelStatementImport converts a domain StatementImport to a model StatementImport
func ToModelStatementImport(d domain.StatementImport) (models.StatementImport, error) {
	importErrors, err := marshalRowErrors(d.ImportErrors)
	if err != nil {
		return models.StatementImport{}, err
	}
	return models.StatementImport{
		ImportID:      d.ImportID,
		TenantID:      d.TenantID,
		BankAccountID: d.BankAccountID,
		FileName:      d.FileName,
		FileType:      string(d.FileType),
		TotalLines:    d.TotalLines,
		TotalCredit:   d.TotalCredit,
		TotalDebit:    d.TotalDebit,
		PeriodStart:   d.PeriodStart,
		PeriodEnd:     d.PeriodEnd,
		Status:        d.Status,
		ImportErrors:  importErrors,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainStatementImport converts a model StatementImport to a domain StatementImport
func ToDomainStatementImport(m models.StatementImport) (domain.StatementImport, error) {
	importErrors, err := unmarshalRowErrors(m.ImportErrors)
	if err != nil {
		return domain.StatementImport{}, err
	}
	return domain.StatementImport{
		ImportID:      m.ImportID,
		TenantID:      m.TenantID,
		BankAccountID: m.BankAccountID,
		FileName:      m.FileName,
		FileType:      domain.FileType(m.FileType),
		TotalLines:    m.TotalLines,
		TotalCredit:   m.TotalCredit,
		TotalDebit:    m.TotalDebit,
		PeriodStart:   m.PeriodStart,
		PeriodEnd:     m.PeriodEnd,
		Status:        m.Status,
		ImportErrors:  importErrors,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelStatementLine converts a domain StatementLine to a model StatementLine
func ToModelStatementLine(d domain.StatementLine) (models.StatementLine, error) {
	auditLog, err := MarshalAuditLog(d.AuditLog)
	if err != nil {
		return models.StatementLine{}, err
	}
	return models.StatementLine{
		LineID:        d.LineID,
		ImportID:      d.ImportID,
		TenantID:      d.TenantID,
		BankAccountID: d.BankAccountID,
		Date:          d.Date,
		Description:   d.Description,
		Document:      d.Document,
		Reference:     d.Reference,
		Kind:          string(d.Kind),
		Amount:        d.Amount,
		Balance:       d.Balance,
		Reconciled:    d.Reconciled,
		PayableID:     d.PayableID,
		ReconciledAt:  d.ReconciledAt,
		ReconciledBy:  d.ReconciledBy,
		Source:        string(d.Source),
		Note:          d.Note,
		AuditLog:      auditLog,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainStatementLine converts a model StatementLine to a domain StatementLine
func ToDomainStatementLine(m models.StatementLine) (domain.StatementLine, error) {
	auditLog, err := UnmarshalAuditLog(m.AuditLog)
	if err != nil {
		return domain.StatementLine{}, err
	}
	return domain.StatementLine{
		LineID:        m.LineID,
		ImportID:      m.ImportID,
		TenantID:      m.TenantID,
		BankAccountID: m.BankAccountID,
		Date:          m.Date,
		Description:   m.Description,
		Document:      m.Document,
		Reference:     m.Reference,
		Kind:          domain.LineKind(m.Kind),
		Amount:        m.Amount,
		Balance:       m.Balance,
		Reconciled:    m.Reconciled,
		PayableID:     m.PayableID,
		ReconciledAt:  m.ReconciledAt,
		ReconciledBy:  m.ReconciledBy,
		Source:        domain.ReconciliationSource(m.Source),
		Note:          m.Note,
		AuditLog:      auditLog,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}, nil
}

// MarshalAuditLog serializes a line's audit trail for JSONB storage. A nil or
// empty trail is stored as an empty JSON array.
func MarshalAuditLog(entries []domain.AuditEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit log: %w", err)
	}
	return data, nil
}

// UnmarshalAuditLog deserializes a JSONB audit trail column.
func UnmarshalAuditLog(data []byte) ([]domain.AuditEntry, error) {
	if len(data) == 0 {
		return []domain.AuditEntry{}, nil
	}
	var entries []domain.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit log: %w", err)
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}

func marshalRowErrors(rowErrors []statement.RowError) ([]byte, error) {
	if rowErrors == nil {
		rowErrors = []statement.RowError{}
	}
	data, err := json.Marshal(rowErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal import errors: %w", err)
	}
	return data, nil
}

func unmarshalRowErrors(data []byte) ([]statement.RowError, error) {
	if len(data) == 0 {
		return []statement.RowError{}, nil
	}
	var rowErrors []statement.RowError
	if err := json.Unmarshal(data, &rowErrors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal import errors: %w", err)
	}
	if rowErrors == nil {
		rowErrors = []statement.RowError{}
	}
	return rowErrors, nil
}
