package services

import (
	"context"

	"github.com/conectcrm/conciliador/internal/core/domain"
	"github.com/conectcrm/conciliador/internal/dto"
)

// StatementImportSvc coordinates statement file ingestion.
type StatementImportSvc interface {
	// ImportStatement validates the target account, normalizes the file and
	// persists the import batch atomically.
	ImportStatement(ctx context.Context, tenantID, actorID string, input dto.ImportStatementInput) (*dto.ImportStatementResult, error)

	// ListImports returns the tenant's most recent imports.
	ListImports(ctx context.Context, tenantID, bankAccountID string, limit int) ([]dto.ImportSummaryResponse, error)

	// ListImportLines returns the lines of one import.
	ListImportLines(ctx context.Context, importID, tenantID string, reconciled *bool, limit int) ([]dto.LineResponse, error)
}

// MatchingSvc runs candidate search and automatic batch matching.
type MatchingSvc interface {
	// ListCandidates returns scored payable candidates for one line, ranked
	// by score descending.
	ListCandidates(ctx context.Context, lineID, tenantID string, limit int) ([]dto.CandidateResponse, error)

	// RunAutomaticMatching evaluates every unreconciled debit line of an
	// import and reconciles the unambiguous high-confidence matches.
	RunAutomaticMatching(ctx context.Context, importID, tenantID, actorID string, toleranceDays *int) (*dto.MatchRunResult, error)
}

// ReconciliationSvc applies and reverses reconciliations on single lines.
type ReconciliationSvc interface {
	// ReconcileManual links a line to a paid payable on behalf of a user.
	ReconcileManual(ctx context.Context, lineID, payableID, tenantID, actorID, note string) (*dto.LineResponse, error)

	// UndoReconciliation clears a line's reconciliation state.
	UndoReconciliation(ctx context.Context, lineID, tenantID, actorID, note string) (*dto.LineResponse, error)
}

// ReconciliationApplierSvc is the narrow surface the batch matcher uses to
// commit an accepted match.
type ReconciliationApplierSvc interface {
	// ApplyAutomaticMatch reconciles a line against a payable with
	// source=automatic, recording the score and matched criteria.
	ApplyAutomaticMatch(ctx context.Context, line *domain.StatementLine, payable domain.Payable, actorID string, score int, criteria []string) error
}

// ServiceContainer holds all service facades for handler wiring.
type ServiceContainer struct {
	StatementImport StatementImportSvc
	Matching        MatchingSvc
	Reconciliation  ReconciliationSvc
}
