package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	"github.com/conectcrm/conciliador/internal/models"
	"github.com/conectcrm/conciliador/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const statementImportColumns = `import_id, tenant_id, bank_account_id, file_name, file_type, total_lines, total_credit, total_debit, period_start, period_end, status, import_errors, created_at, created_by`

const statementLineColumns = `line_id, import_id, tenant_id, bank_account_id, entry_date, description, document, reference, kind, amount, balance, reconciled, payable_id, reconciled_at, reconciled_by, source, note, audit_log, created_at, created_by`

type PgxStatementRepository struct {
	BaseRepository
}

// newPgxStatementRepository creates a new repository for statement imports and lines.
func newPgxStatementRepository(pool *pgxpool.Pool) portsrepo.StatementRepositoryWithTx {
	return &PgxStatementRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxStatementRepository implements portsrepo.StatementRepositoryWithTx
var _ portsrepo.StatementRepositoryWithTx = (*PgxStatementRepository)(nil)

// SaveImportWithLines inserts the import header and all of its lines in a
// single transaction.
func (r *PgxStatementRepository) SaveImportWithLines(ctx context.Context, imp domain.StatementImport, lines []domain.StatementLine) error {
	modelImp, err := mapping.ToModelStatementImport(imp)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Rollback(ctx, tx)
	}()

	importQuery := `
		INSERT INTO statement_imports (` + statementImportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, importQuery,
		modelImp.ImportID,
		modelImp.TenantID,
		modelImp.BankAccountID,
		modelImp.FileName,
		modelImp.FileType,
		modelImp.TotalLines,
		modelImp.TotalCredit,
		modelImp.TotalDebit,
		modelImp.PeriodStart,
		modelImp.PeriodEnd,
		modelImp.Status,
		modelImp.ImportErrors,
		modelImp.CreatedAt,
		modelImp.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: import with ID %s already exists", apperrors.ErrDuplicate, modelImp.ImportID)
		}
		return fmt.Errorf("failed to save statement import %s: %w", modelImp.ImportID, err)
	}

	lineQuery := `
		INSERT INTO statement_lines (` + statementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		modelLine, mapErr := mapping.ToModelStatementLine(line)
		if mapErr != nil {
			return mapErr
		}
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.ImportID,
			modelLine.TenantID,
			modelLine.BankAccountID,
			modelLine.Date,
			modelLine.Description,
			modelLine.Document,
			modelLine.Reference,
			modelLine.Kind,
			modelLine.Amount,
			modelLine.Balance,
			modelLine.Reconciled,
			modelLine.PayableID,
			modelLine.ReconciledAt,
			modelLine.ReconciledBy,
			modelLine.Source,
			modelLine.Note,
			modelLine.AuditLog,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to save statement lines for import %s: %w", modelImp.ImportID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close statement line batch for import %s: %w", modelImp.ImportID, err)
	}

	return r.Commit(ctx, tx)
}

// FindImportByID retrieves an import scoped to the tenant.
func (r *PgxStatementRepository) FindImportByID(ctx context.Context, importID, tenantID string) (*domain.StatementImport, error) {
	query := `
		SELECT ` + statementImportColumns + `
		FROM statement_imports
		WHERE import_id = $1 AND tenant_id = $2;
	`
	row := r.Pool.QueryRow(ctx, query, importID, tenantID)
	modelImp, err := scanStatementImport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement import by ID %s: %w", importID, err)
	}

	domainImp, err := mapping.ToDomainStatementImport(modelImp)
	if err != nil {
		return nil, err
	}
	return &domainImp, nil
}

// ListImports retrieves the most recent imports for a tenant, newest first.
func (r *PgxStatementRepository) ListImports(ctx context.Context, tenantID, bankAccountID string, limit int) ([]domain.StatementImport, error) {
	query := `
		SELECT ` + statementImportColumns + `
		FROM statement_imports
		WHERE tenant_id = $1 AND ($2 = '' OR bank_account_id = $2)
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, bankAccountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement imports for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	imports := []domain.StatementImport{}
	for rows.Next() {
		modelImp, err := scanStatementImport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement import row: %w", err)
		}
		domainImp, err := mapping.ToDomainStatementImport(modelImp)
		if err != nil {
			return nil, err
		}
		imports = append(imports, domainImp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement import rows: %w", err)
	}
	return imports, nil
}

// FindLineByID retrieves a line scoped to the tenant. When the line is linked
// to a payable the payable projection is populated in the same query.
func (r *PgxStatementRepository) FindLineByID(ctx context.Context, lineID, tenantID string) (*domain.StatementLine, error) {
	query := `
		SELECT l.line_id, l.import_id, l.tenant_id, l.bank_account_id, l.entry_date, l.description, l.document, l.reference, l.kind, l.amount, l.balance,
		       l.reconciled, l.payable_id, l.reconciled_at, l.reconciled_by, l.source, l.note, l.audit_log, l.created_at, l.created_by,
		       p.payable_id, p.status, p.number, p.document_number, p.description, p.supplier_name, p.total_amount, p.paid_amount, p.paid_at, p.due_at, p.bank_account_id
		FROM statement_lines l
		LEFT JOIN payables p ON p.payable_id = l.payable_id AND p.tenant_id = l.tenant_id
		WHERE l.line_id = $1 AND l.tenant_id = $2;
	`

	var modelLine models.StatementLine
	var payableID, reconciledBy, source, note sql.NullString
	var pID, pStatus, pNumber, pDocNumber, pDescription, pSupplier, pAccount sql.NullString
	var pTotal, pPaid decimal.NullDecimal
	var pPaidAt, pDueAt sql.NullTime

	err := r.Pool.QueryRow(ctx, query, lineID, tenantID).Scan(
		&modelLine.LineID,
		&modelLine.ImportID,
		&modelLine.TenantID,
		&modelLine.BankAccountID,
		&modelLine.Date,
		&modelLine.Description,
		&modelLine.Document,
		&modelLine.Reference,
		&modelLine.Kind,
		&modelLine.Amount,
		&modelLine.Balance,
		&modelLine.Reconciled,
		&payableID,
		&modelLine.ReconciledAt,
		&reconciledBy,
		&source,
		&note,
		&modelLine.AuditLog,
		&modelLine.CreatedAt,
		&modelLine.CreatedBy,
		&pID,
		&pStatus,
		&pNumber,
		&pDocNumber,
		&pDescription,
		&pSupplier,
		&pTotal,
		&pPaid,
		&pPaidAt,
		&pDueAt,
		&pAccount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement line by ID %s: %w", lineID, err)
	}

	if payableID.Valid {
		modelLine.PayableID = &payableID.String
	}
	modelLine.ReconciledBy = reconciledBy.String
	modelLine.Source = source.String
	modelLine.Note = note.String

	domainLine, err := mapping.ToDomainStatementLine(modelLine)
	if err != nil {
		return nil, err
	}

	if pID.Valid {
		payable := models.Payable{
			PayableID:      pID.String,
			TenantID:       tenantID,
			Status:         pStatus.String,
			Number:         pNumber.String,
			DocumentNumber: pDocNumber.String,
			Description:    pDescription.String,
			SupplierName:   pSupplier.String,
			TotalAmount:    pTotal.Decimal,
			PaidAmount:     pPaid.Decimal,
			BankAccountID:  pAccount.String,
		}
		if pPaidAt.Valid {
			t := pPaidAt.Time
			payable.PaidAt = &t
		}
		if pDueAt.Valid {
			t := pDueAt.Time
			payable.DueAt = &t
		}
		domainPayable := mapping.ToDomainPayable(payable)
		domainLine.Payable = &domainPayable
	}

	return &domainLine, nil
}

// ListLinesByImport retrieves lines of an import, most recent entry date first.
func (r *PgxStatementRepository) ListLinesByImport(ctx context.Context, importID, tenantID string, reconciled *bool, limit int) ([]domain.StatementLine, error) {
	query := `
		SELECT ` + statementLineColumns + `
		FROM statement_lines
		WHERE import_id = $1 AND tenant_id = $2 AND ($3::boolean IS NULL OR reconciled = $3)
		ORDER BY entry_date DESC, created_at DESC
		LIMIT $4;
	`
	rows, err := r.Pool.Query(ctx, query, importID, tenantID, reconciled, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement lines for import %s: %w", importID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// ListPendingDebitLines retrieves the unreconciled debit lines of an import
// for the batch matcher, in the listing order.
func (r *PgxStatementRepository) ListPendingDebitLines(ctx context.Context, importID, tenantID string) ([]domain.StatementLine, error) {
	query := `
		SELECT ` + statementLineColumns + `
		FROM statement_lines
		WHERE import_id = $1 AND tenant_id = $2 AND reconciled = FALSE AND kind = 'debit'
		ORDER BY entry_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, importID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending debit lines for import %s: %w", importID, err)
	}
	defer rows.Close()

	return collectLines(rows)
}

// CountLinesByPayable counts reconciled lines linked to a payable, excluding
// excludeLineID when non-empty.
func (r *PgxStatementRepository) CountLinesByPayable(ctx context.Context, tenantID, payableID, excludeLineID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM statement_lines
		WHERE tenant_id = $1 AND payable_id = $2 AND reconciled = TRUE AND ($3 = '' OR line_id <> $3);
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, tenantID, payableID, excludeLineID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count statement lines for payable %s: %w", payableID, err)
	}
	return count, nil
}

// UpdateLineReconciliation persists the reconciliation fields and audit log of
// a single line.
func (r *PgxStatementRepository) UpdateLineReconciliation(ctx context.Context, line domain.StatementLine) error {
	modelLine, err := mapping.ToModelStatementLine(line)
	if err != nil {
		return err
	}

	query := `
		UPDATE statement_lines
		SET reconciled = $3, payable_id = $4, reconciled_at = $5, reconciled_by = $6, source = $7, note = $8, audit_log = $9
		WHERE line_id = $1 AND tenant_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		modelLine.LineID,
		modelLine.TenantID,
		modelLine.Reconciled,
		modelLine.PayableID,
		modelLine.ReconciledAt,
		modelLine.ReconciledBy,
		modelLine.Source,
		modelLine.Note,
		modelLine.AuditLog,
	)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation for line %s: %w", modelLine.LineID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanStatementImport(row pgx.Row) (models.StatementImport, error) {
	var m models.StatementImport
	err := row.Scan(
		&m.ImportID,
		&m.TenantID,
		&m.BankAccountID,
		&m.FileName,
		&m.FileType,
		&m.TotalLines,
		&m.TotalCredit,
		&m.TotalDebit,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.Status,
		&m.ImportErrors,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func collectLines(rows pgx.Rows) ([]domain.StatementLine, error) {
	lines := []domain.StatementLine{}
	for rows.Next() {
		var m models.StatementLine
		var payableID, reconciledBy, source, note sql.NullString
		err := rows.Scan(
			&m.LineID,
			&m.ImportID,
			&m.TenantID,
			&m.BankAccountID,
			&m.Date,
			&m.Description,
			&m.Document,
			&m.Reference,
			&m.Kind,
			&m.Amount,
			&m.Balance,
			&m.Reconciled,
			&payableID,
			&m.ReconciledAt,
			&reconciledBy,
			&source,
			&note,
			&m.AuditLog,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement line row: %w", err)
		}
		if payableID.Valid {
			m.PayableID = &payableID.String
		}
		m.ReconciledBy = reconciledBy.String
		m.Source = source.String
		m.Note = note.String

		d, err := mapping.ToDomainStatementLine(m)
		if err != nil {
			return nil, err
		}
		lines = append(lines, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement line rows: %w", err)
	}
	return lines, nil
}
