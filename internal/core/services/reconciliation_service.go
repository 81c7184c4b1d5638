package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/conectcrm/conciliador/internal/apperrors"
	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
)

const (
	// maxNoteLength bounds the reconciliation note stored on a line.
	maxNoteLength = 500

	// Candidate search bounds used to echo the score of a manually chosen
	// payable back to the caller.
	manualEchoLimit     = 50
	manualEchoTolerance = 10

	defaultManualNote = "manual reconciliation applied"
)

// reconciliationServiceImpl implements ReconciliationSvc and the applier
// surface the batch matcher uses.
type reconciliationServiceImpl struct {
	BaseService
	statementRepo portsrepo.StatementRepositoryFacade
	payableRepo   portsrepo.PayableReader
	search        candidateSearch

	// strictLinking rejects linking a payable already bound to another
	// line. The permissive default allows one payable to be settled by
	// several partial bank entries.
	strictLinking bool
}

// ReconciliationOption configures the reconciliation service.
type ReconciliationOption func(*reconciliationServiceImpl)

// WithStrictPayableLinking enforces one-line-per-payable exclusivity.
func WithStrictPayableLinking(strict bool) ReconciliationOption {
	return func(s *reconciliationServiceImpl) {
		s.strictLinking = strict
	}
}

// NewReconciliationService creates the reconciliation mutator.
func NewReconciliationService(statementRepo portsrepo.StatementRepositoryFacade, payableRepo portsrepo.PayableReader, options ...ReconciliationOption) portssvc.ReconciliationSvc {
	svc := &reconciliationServiceImpl{
		statementRepo: statementRepo,
		payableRepo:   payableRepo,
		search:        candidateSearch{payableRepo: payableRepo},
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var (
	_ portssvc.ReconciliationSvc        = (*reconciliationServiceImpl)(nil)
	_ portssvc.ReconciliationApplierSvc = (*reconciliationServiceImpl)(nil)
)

func (s *reconciliationServiceImpl) ReconcileManual(ctx context.Context, lineID, payableID, tenantID, actorID, note string) (*dto.LineResponse, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID, tenantID)
	if err != nil {
		return nil, err
	}

	payable, err := s.payableRepo.FindPayableByID(ctx, payableID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("payable not found for tenant: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if payable.Status != domain.PayableStatusPaid {
		return nil, fmt.Errorf("payable must have status paid to be reconciled: %w", apperrors.ErrInvalidState)
	}

	if payable.BankAccountID != "" && payable.BankAccountID != line.BankAccountID {
		return nil, fmt.Errorf("payable belongs to another bank account: %w", apperrors.ErrInvalidState)
	}

	if err := s.checkExclusivity(ctx, tenantID, payable.PayableID, line.LineID); err != nil {
		return nil, err
	}

	note = strings.TrimSpace(note)
	if note == "" {
		note = defaultManualNote
	}

	// Echo the score when the chosen payable ranks among the candidates.
	var score *int
	var criteria []string
	if candidates, err := s.search.find(ctx, line, tenantID, manualEchoLimit, manualEchoTolerance); err == nil {
		for _, candidate := range candidates {
			if candidate.Payable.PayableID == payable.PayableID {
				value := candidate.Score
				score = &value
				criteria = candidate.Criteria
				break
			}
		}
	}

	if err := s.apply(ctx, line, *payable, domain.SourceManual, domain.AuditActionManualReconciliation, actorID, note, score, criteria); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Line reconciled manually",
		slog.String("line_id", line.LineID),
		slog.String("payable_id", payable.PayableID),
		slog.String("actor_id", actorID))

	updated, err := s.statementRepo.FindLineByID(ctx, lineID, tenantID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLineResponse(updated)
	return &resp, nil
}

func (s *reconciliationServiceImpl) UndoReconciliation(ctx context.Context, lineID, tenantID, actorID, note string) (*dto.LineResponse, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID, tenantID)
	if err != nil {
		return nil, err
	}

	if !line.Reconciled && line.PayableID == nil {
		return nil, fmt.Errorf("line is not reconciled: %w", apperrors.ErrInvalidState)
	}

	previousPayableID := line.PayableID
	note = truncateNote(strings.TrimSpace(note))

	line.Reconciled = false
	line.PayableID = nil
	line.Payable = nil
	line.ReconciledAt = nil
	line.ReconciledBy = ""
	line.Source = ""
	line.Note = note
	line.AuditLog = domain.AppendAudit(line.AuditLog, domain.AuditEntry{
		Action:            domain.AuditActionUndoReconciliation,
		ActorID:           orSystem(actorID),
		At:                time.Now(),
		Note:              note,
		PreviousPayableID: previousPayableID,
	})

	if err := s.statementRepo.UpdateLineReconciliation(ctx, *line); err != nil {
		s.LogError(ctx, err, "Failed to undo reconciliation", slog.String("line_id", line.LineID))
		return nil, err
	}

	s.LogInfo(ctx, "Reconciliation undone",
		slog.String("line_id", line.LineID),
		slog.String("actor_id", actorID))

	updated, err := s.statementRepo.FindLineByID(ctx, lineID, tenantID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToLineResponse(updated)
	return &resp, nil
}

// ApplyAutomaticMatch commits a batch-matcher acceptance.
func (s *reconciliationServiceImpl) ApplyAutomaticMatch(ctx context.Context, line *domain.StatementLine, payable domain.Payable, actorID string, score int, criteria []string) error {
	if err := s.checkExclusivity(ctx, line.TenantID, payable.PayableID, line.LineID); err != nil {
		return err
	}
	note := "automatic matching by " + strings.Join(criteria, ", ")
	return s.apply(ctx, line, payable, domain.SourceAutomatic, domain.AuditActionAutomaticMatch, actorID, note, &score, criteria)
}

// apply performs the shared reconciliation state transition and audit append.
func (s *reconciliationServiceImpl) apply(ctx context.Context, line *domain.StatementLine, payable domain.Payable, source domain.ReconciliationSource, action, actorID, note string, score *int, criteria []string) error {
	previousPayableID := line.PayableID
	now := time.Now()
	note = truncateNote(note)

	payableID := payable.PayableID
	line.Reconciled = true
	line.PayableID = &payableID
	line.ReconciledAt = &now
	line.ReconciledBy = orSystem(actorID)
	line.Source = source
	line.Note = note
	line.AuditLog = domain.AppendAudit(line.AuditLog, domain.AuditEntry{
		Action:            action,
		ActorID:           orSystem(actorID),
		At:                now,
		Note:              note,
		PreviousPayableID: previousPayableID,
		NewPayableID:      &payableID,
		Score:             score,
		Criteria:          criteria,
	})

	if err := s.statementRepo.UpdateLineReconciliation(ctx, *line); err != nil {
		s.LogError(ctx, err, "Failed to persist reconciliation",
			slog.String("line_id", line.LineID),
			slog.String("payable_id", payable.PayableID))
		return err
	}
	return nil
}

// checkExclusivity enforces strict payable linking when configured.
func (s *reconciliationServiceImpl) checkExclusivity(ctx context.Context, tenantID, payableID, lineID string) error {
	if !s.strictLinking {
		return nil
	}
	count, err := s.statementRepo.CountLinesByPayable(ctx, tenantID, payableID, lineID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("payable is already linked to another statement line: %w", apperrors.ErrInvalidState)
	}
	return nil
}

func truncateNote(note string) string {
	if len(note) > maxNoteLength {
		return note[:maxNoteLength]
	}
	return note
}

func orSystem(actorID string) string {
	if strings.TrimSpace(actorID) == "" {
		return "system"
	}
	return actorID
}
