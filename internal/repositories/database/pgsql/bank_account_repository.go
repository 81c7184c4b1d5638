package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	"github.com/conectcrm/conciliador/internal/models"
	"github.com/conectcrm/conciliador/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxBankAccountRepository creates a read-only repository over the bank-account registry.
func newPgxBankAccountRepository(pool *pgxpool.Pool) portsrepo.BankAccountReader {
	return &PgxBankAccountRepository{pool: pool}
}

// Ensure PgxBankAccountRepository implements portsrepo.BankAccountReader
var _ portsrepo.BankAccountReader = (*PgxBankAccountRepository)(nil)

// FindActiveAccount retrieves an account only when it is active and belongs to
// the tenant. An inactive or foreign account reads as not found.
func (r *PgxBankAccountRepository) FindActiveAccount(ctx context.Context, accountID, tenantID string) (*domain.BankAccount, error) {
	query := `
		SELECT account_id, tenant_id, name, active
		FROM bank_accounts
		WHERE account_id = $1 AND tenant_id = $2 AND active = TRUE;
	`
	var m models.BankAccount
	err := r.pool.QueryRow(ctx, query, accountID, tenantID).Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Name,
		&m.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account by ID %s: %w", accountID, err)
	}

	d := mapping.ToDomainBankAccount(m)
	return &d, nil
}
