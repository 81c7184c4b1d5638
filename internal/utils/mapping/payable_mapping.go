package mapping

import (
	"github.com/conectcrm/conciliador/internal/core/domain"
	"github.com/conectcrm/conciliador/internal/models"
)

// ToDomainPayable converts a model Payable to a domain Payable
func ToDomainPayable(m models.Payable) domain.Payable {
	return domain.Payable{
		PayableID:      m.PayableID,
		TenantID:       m.TenantID,
		Status:         domain.PayableStatus(m.Status),
		Number:         m.Number,
		DocumentNumber: m.DocumentNumber,
		Description:    m.Description,
		SupplierName:   m.SupplierName,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		PaidAt:         m.PaidAt,
		DueAt:          m.DueAt,
		BankAccountID:  m.BankAccountID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayableSlice converts a slice of model Payables to a slice of domain Payables
func ToDomainPayableSlice(ms []models.Payable) []domain.Payable {
	ds := make([]domain.Payable, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayable(m)
	}
	return ds
}

// ToDomainBankAccount converts a model BankAccount to a domain BankAccount
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		AccountID: m.AccountID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Active:    m.Active,
	}
}
