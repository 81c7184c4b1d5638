package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
)

// --- Mock StatementRepository ---
type MockStatementRepository struct {
	mock.Mock
}

// Ensure MockStatementRepository implements portsrepo.StatementRepositoryFacade
var _ portsrepo.StatementRepositoryFacade = (*MockStatementRepository)(nil)

func (m *MockStatementRepository) FindImportByID(ctx context.Context, importID, tenantID string) (*domain.StatementImport, error) {
	args := m.Called(ctx, importID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementImport), args.Error(1)
}

func (m *MockStatementRepository) ListImports(ctx context.Context, tenantID, bankAccountID string, limit int) ([]domain.StatementImport, error) {
	args := m.Called(ctx, tenantID, bankAccountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementImport), args.Error(1)
}

func (m *MockStatementRepository) FindLineByID(ctx context.Context, lineID, tenantID string) (*domain.StatementLine, error) {
	args := m.Called(ctx, lineID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatementLine), args.Error(1)
}

func (m *MockStatementRepository) ListLinesByImport(ctx context.Context, importID, tenantID string, reconciled *bool, limit int) ([]domain.StatementLine, error) {
	args := m.Called(ctx, importID, tenantID, reconciled, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementLine), args.Error(1)
}

func (m *MockStatementRepository) ListPendingDebitLines(ctx context.Context, importID, tenantID string) ([]domain.StatementLine, error) {
	args := m.Called(ctx, importID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatementLine), args.Error(1)
}

func (m *MockStatementRepository) CountLinesByPayable(ctx context.Context, tenantID, payableID, excludeLineID string) (int, error) {
	args := m.Called(ctx, tenantID, payableID, excludeLineID)
	return args.Int(0), args.Error(1)
}

func (m *MockStatementRepository) SaveImportWithLines(ctx context.Context, imp domain.StatementImport, lines []domain.StatementLine) error {
	args := m.Called(ctx, imp, lines)
	return args.Error(0)
}

func (m *MockStatementRepository) UpdateLineReconciliation(ctx context.Context, line domain.StatementLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

// --- Mock PayableReader ---
type MockPayableReader struct {
	mock.Mock
}

var _ portsrepo.PayableReader = (*MockPayableReader)(nil)

func (m *MockPayableReader) FindPayableByID(ctx context.Context, payableID, tenantID string) (*domain.Payable, error) {
	args := m.Called(ctx, payableID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payable), args.Error(1)
}

func (m *MockPayableReader) QueryPaidPayables(ctx context.Context, tenantID string, from, to time.Time, bankAccountID string, limit int) ([]domain.Payable, error) {
	args := m.Called(ctx, tenantID, from, to, bankAccountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payable), args.Error(1)
}

// --- Mock BankAccountReader ---
type MockBankAccountReader struct {
	mock.Mock
}

var _ portsrepo.BankAccountReader = (*MockBankAccountReader)(nil)

func (m *MockBankAccountReader) FindActiveAccount(ctx context.Context, accountID, tenantID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, accountID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankAccount), args.Error(1)
}

// --- Mock ReconciliationApplier ---
type MockReconciliationApplier struct {
	mock.Mock
}

var _ portssvc.ReconciliationApplierSvc = (*MockReconciliationApplier)(nil)

func (m *MockReconciliationApplier) ApplyAutomaticMatch(ctx context.Context, line *domain.StatementLine, payable domain.Payable, actorID string, score int, criteria []string) error {
	args := m.Called(ctx, line, payable, actorID, score, criteria)
	return args.Error(0)
}
