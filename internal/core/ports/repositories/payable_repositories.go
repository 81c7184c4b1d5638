package repositories

import (
	"context"
	"time"

	"github.com/conectcrm/conciliador/internal/core/domain"
)

// PayableReader defines the read-only view of the payables ledger this engine
// consumes. The engine never writes payables.
type PayableReader interface {
	// FindPayableByID retrieves a payable scoped to the tenant.
	FindPayableByID(ctx context.Context, payableID, tenantID string) (*domain.Payable, error)

	// QueryPaidPayables retrieves paid payables whose paid date falls inside
	// [from, to], ordered by paid date desc then creation desc, limited by
	// the caller. When bankAccountID is non-empty, only payables linked to
	// that account or to no account are returned.
	QueryPaidPayables(ctx context.Context, tenantID string, from, to time.Time, bankAccountID string, limit int) ([]domain.Payable, error)
}

// BankAccountReader defines the read-only view of the bank-account registry.
type BankAccountReader interface {
	// FindActiveAccount retrieves an account only when it exists, is active
	// and belongs to the tenant.
	FindActiveAccount(ctx context.Context, accountID, tenantID string) (*domain.BankAccount, error)
}
