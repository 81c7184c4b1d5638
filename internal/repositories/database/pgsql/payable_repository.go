package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	"github.com/conectcrm/conciliador/internal/models"
	"github.com/conectcrm/conciliador/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const payableColumns = `payable_id, tenant_id, status, number, document_number, description, supplier_name, total_amount, paid_amount, paid_at, due_at, bank_account_id, created_at, created_by`

type PgxPayableRepository struct {
	pool *pgxpool.Pool
}

// newPgxPayableRepository creates a read-only repository over the payables ledger.
func newPgxPayableRepository(pool *pgxpool.Pool) portsrepo.PayableReader {
	return &PgxPayableRepository{pool: pool}
}

// Ensure PgxPayableRepository implements portsrepo.PayableReader
var _ portsrepo.PayableReader = (*PgxPayableRepository)(nil)

// FindPayableByID retrieves a payable scoped to the tenant.
func (r *PgxPayableRepository) FindPayableByID(ctx context.Context, payableID, tenantID string) (*domain.Payable, error) {
	query := `
		SELECT ` + payableColumns + `
		FROM payables
		WHERE payable_id = $1 AND tenant_id = $2;
	`
	m, err := scanPayable(r.pool.QueryRow(ctx, query, payableID, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payable by ID %s: %w", payableID, err)
	}

	d := mapping.ToDomainPayable(m)
	return &d, nil
}

// QueryPaidPayables retrieves paid payables with a paid date inside [from, to],
// most recently paid first. When bankAccountID is non-empty the result is
// restricted to payables linked to that account or to no account at all.
func (r *PgxPayableRepository) QueryPaidPayables(ctx context.Context, tenantID string, from, to time.Time, bankAccountID string, limit int) ([]domain.Payable, error) {
	query := `
		SELECT ` + payableColumns + `
		FROM payables
		WHERE tenant_id = $1
		  AND status = 'paid'
		  AND paid_at IS NOT NULL
		  AND paid_at >= $2 AND paid_at <= $3
		  AND ($4 = '' OR bank_account_id = $4 OR bank_account_id IS NULL OR bank_account_id = '')
		ORDER BY paid_at DESC, created_at DESC
		LIMIT $5;
	`
	rows, err := r.pool.Query(ctx, query, tenantID, from, to, bankAccountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query paid payables for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	payables := []domain.Payable{}
	for rows.Next() {
		m, err := scanPayable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payable row: %w", err)
		}
		payables = append(payables, mapping.ToDomainPayable(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payable rows: %w", err)
	}
	return payables, nil
}

func scanPayable(row pgx.Row) (models.Payable, error) {
	var m models.Payable
	var number, docNumber, supplier, account sql.NullString
	err := row.Scan(
		&m.PayableID,
		&m.TenantID,
		&m.Status,
		&number,
		&docNumber,
		&m.Description,
		&supplier,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.PaidAt,
		&m.DueAt,
		&account,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return models.Payable{}, err
	}
	m.Number = number.String
	m.DocumentNumber = docNumber.String
	m.SupplierName = supplier.String
	m.BankAccountID = account.String
	return m, nil
}
