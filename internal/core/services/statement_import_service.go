package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
	"github.com/conectcrm/conciliador/internal/statement"
)

const (
	// maxStoredRowErrors bounds the row errors persisted with an import.
	maxStoredRowErrors = 200
	// maxReportedRowErrors bounds the diagnostics attached to a
	// no-valid-records failure.
	maxReportedRowErrors = 100
	// previewLineCount bounds the line preview in the import response.
	previewLineCount = 20

	defaultImportListLimit = 20
	maxImportListLimit     = 100
	defaultLineListLimit   = 200
	maxLineListLimit       = 500

	fallbackFileName = "statement-unnamed"
)

// statementImportServiceImpl implements the StatementImportSvc interface.
type statementImportServiceImpl struct {
	BaseService
	statementRepo   portsrepo.StatementRepositoryFacade
	bankAccountRepo portsrepo.BankAccountReader
}

// NewStatementImportService creates the import coordinator.
func NewStatementImportService(statementRepo portsrepo.StatementRepositoryFacade, bankAccountRepo portsrepo.BankAccountReader) portssvc.StatementImportSvc {
	return &statementImportServiceImpl{
		statementRepo:   statementRepo,
		bankAccountRepo: bankAccountRepo,
	}
}

var _ portssvc.StatementImportSvc = (*statementImportServiceImpl)(nil)

func (s *statementImportServiceImpl) ImportStatement(ctx context.Context, tenantID, actorID string, input dto.ImportStatementInput) (*dto.ImportStatementResult, error) {
	if len(input.Content) == 0 {
		return nil, fmt.Errorf("statement file is empty: %w", apperrors.ErrValidation)
	}

	account, err := s.bankAccountRepo.FindActiveAccount(ctx, input.BankAccountID, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Target bank account not usable for import",
			slog.String("bank_account_id", input.BankAccountID),
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("bank account not found or inactive for tenant: %w", apperrors.ErrValidation)
	}

	format, ok := statement.DetectFormat(input.FileName, input.ContentType)
	if !ok {
		return nil, fmt.Errorf("unsupported file format, expected CSV or OFX: %w", apperrors.ErrValidation)
	}

	lines, rowErrors := statement.Normalize(format, input.Content)
	if len(lines) == 0 {
		s.LogInfo(ctx, "Statement file produced no valid lines",
			slog.String("bank_account_id", account.AccountID),
			slog.Int("row_errors", len(rowErrors)))
		return nil, &apperrors.NoValidRecordsError{RowErrors: capRowErrors(rowErrors, maxReportedRowErrors)}
	}

	now := time.Now()
	fileName := input.FileName
	if fileName == "" {
		fileName = fallbackFileName
	}

	imp := domain.StatementImport{
		ImportID:      uuid.NewString(),
		TenantID:      tenantID,
		BankAccountID: account.AccountID,
		FileName:      fileName,
		FileType:      domain.FileType(format),
		TotalLines:    len(lines),
		TotalCredit:   sumByKind(lines, statement.KindCredit),
		TotalDebit:    sumByKind(lines, statement.KindDebit),
		Status:        domain.ImportStatusProcessed,
		ImportErrors:  capRowErrors(rowErrors, maxStoredRowErrors),
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			CreatedBy: actorID,
		},
	}
	if start, end, ok := periodBounds(lines); ok {
		imp.PeriodStart = &start
		imp.PeriodEnd = &end
	}

	domainLines := make([]domain.StatementLine, len(lines))
	for i, line := range lines {
		domainLines[i] = domain.StatementLine{
			LineID:        uuid.NewString(),
			ImportID:      imp.ImportID,
			TenantID:      tenantID,
			BankAccountID: account.AccountID,
			Date:          line.Date,
			Description:   line.Description,
			Document:      line.Document,
			Reference:     line.Reference,
			Kind:          domain.LineKind(line.Kind),
			Amount:        line.Amount,
			Balance:       line.Balance,
			Reconciled:    false,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				CreatedBy: actorID,
			},
		}
	}

	if err := s.statementRepo.SaveImportWithLines(ctx, imp, domainLines); err != nil {
		s.LogError(ctx, err, "Failed to persist statement import",
			slog.String("import_id", imp.ImportID),
			slog.Int("line_count", len(domainLines)))
		return nil, err
	}

	s.LogInfo(ctx, "Statement import persisted",
		slog.String("import_id", imp.ImportID),
		slog.String("bank_account_id", account.AccountID),
		slog.Int("line_count", imp.TotalLines),
		slog.Int("row_errors", len(imp.ImportErrors)))

	preview := domainLines
	if len(preview) > previewLineCount {
		preview = preview[:previewLineCount]
	}
	previewResponses := make([]dto.LineResponse, len(preview))
	for i := range preview {
		previewResponses[i] = dto.ToLineResponse(&preview[i])
	}

	summary := dto.ToImportSummaryResponse(&imp)
	return &dto.ImportStatementResult{
		Import: summary,
		Resume: dto.ImportResume{
			TotalLines:  imp.TotalLines,
			TotalCredit: imp.TotalCredit,
			TotalDebit:  imp.TotalDebit,
			PeriodStart: summary.PeriodStart,
			PeriodEnd:   summary.PeriodEnd,
		},
		Errors:       imp.ImportErrors,
		PreviewLines: previewResponses,
	}, nil
}

func (s *statementImportServiceImpl) ListImports(ctx context.Context, tenantID, bankAccountID string, limit int) ([]dto.ImportSummaryResponse, error) {
	limit = normalizeLimit(limit, defaultImportListLimit, maxImportListLimit)

	imports, err := s.statementRepo.ListImports(ctx, tenantID, bankAccountID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list statement imports", slog.String("tenant_id", tenantID))
		return nil, err
	}

	responses := make([]dto.ImportSummaryResponse, len(imports))
	for i := range imports {
		responses[i] = dto.ToImportSummaryResponse(&imports[i])
	}
	return responses, nil
}

func (s *statementImportServiceImpl) ListImportLines(ctx context.Context, importID, tenantID string, reconciled *bool, limit int) ([]dto.LineResponse, error) {
	if _, err := s.statementRepo.FindImportByID(ctx, importID, tenantID); err != nil {
		return nil, err
	}

	limit = normalizeLimit(limit, defaultLineListLimit, maxLineListLimit)

	lines, err := s.statementRepo.ListLinesByImport(ctx, importID, tenantID, reconciled, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list import lines", slog.String("import_id", importID))
		return nil, err
	}

	responses := make([]dto.LineResponse, len(lines))
	for i := range lines {
		responses[i] = dto.ToLineResponse(&lines[i])
	}
	return responses, nil
}

// sumByKind totals the absolute values of one line kind, rounded to two
// decimals independently of the other kind's total.
func sumByKind(lines []statement.Line, kind statement.Kind) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Kind == kind {
			total = total.Add(line.Amount)
		}
	}
	return total.Round(2)
}

func periodBounds(lines []statement.Line) (time.Time, time.Time, bool) {
	if len(lines) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end := lines[0].Date, lines[0].Date
	for _, line := range lines[1:] {
		if line.Date.Before(start) {
			start = line.Date
		}
		if line.Date.After(end) {
			end = line.Date
		}
	}
	return start, end, true
}

func capRowErrors(rowErrors []statement.RowError, limit int) []statement.RowError {
	if len(rowErrors) <= limit {
		return rowErrors
	}
	return rowErrors[:limit]
}

func normalizeLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
