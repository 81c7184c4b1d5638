package repositories

import (
	"context"

	"github.com/conectcrm/conciliador/internal/core/domain"
)

// StatementImportReader defines read operations for statement imports.
type StatementImportReader interface {
	// FindImportByID retrieves an import scoped to the tenant.
	FindImportByID(ctx context.Context, importID, tenantID string) (*domain.StatementImport, error)

	// ListImports retrieves the most recent imports for a tenant, newest
	// first. bankAccountID narrows the list when non-empty.
	ListImports(ctx context.Context, tenantID, bankAccountID string, limit int) ([]domain.StatementImport, error)
}

// StatementLineReader defines read operations for statement lines.
type StatementLineReader interface {
	// FindLineByID retrieves a line scoped to the tenant, with its linked
	// payable projection populated when the line is reconciled.
	FindLineByID(ctx context.Context, lineID, tenantID string) (*domain.StatementLine, error)

	// ListLinesByImport retrieves lines of an import ordered by transaction
	// date desc then creation desc. reconciled filters when non-nil.
	ListLinesByImport(ctx context.Context, importID, tenantID string, reconciled *bool, limit int) ([]domain.StatementLine, error)

	// ListPendingDebitLines retrieves the unreconciled debit lines of an
	// import in the same ordering, for the batch matcher.
	ListPendingDebitLines(ctx context.Context, importID, tenantID string) ([]domain.StatementLine, error)

	// CountLinesByPayable counts reconciled lines linked to a payable,
	// excluding excludeLineID when non-empty. Used by strict linking mode.
	CountLinesByPayable(ctx context.Context, tenantID, payableID, excludeLineID string) (int, error)
}

// StatementWriter defines write operations for imports and lines.
type StatementWriter interface {
	// SaveImportWithLines persists an import and all of its lines in one
	// transaction; either everything is written or nothing is.
	SaveImportWithLines(ctx context.Context, imp domain.StatementImport, lines []domain.StatementLine) error

	// UpdateLineReconciliation persists the reconciliation fields and audit
	// log of a single line.
	UpdateLineReconciliation(ctx context.Context, line domain.StatementLine) error
}

// StatementRepositoryFacade combines all statement persistence interfaces.
type StatementRepositoryFacade interface {
	StatementImportReader
	StatementLineReader
	StatementWriter
}

// StatementRepositoryWithTx extends the facade with transaction capabilities.
type StatementRepositoryWithTx interface {
	StatementRepositoryFacade
	TransactionManager
}
