package services

import (
	"context"
	"log/slog"

	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	portssvc "github.com/conectcrm/conciliador/internal/core/ports/services"
	"github.com/conectcrm/conciliador/internal/dto"
)

const (
	// autoMatchMinScore is the minimum-confidence floor for automatic
	// acceptance.
	autoMatchMinScore = 80
	// autoMatchMinGap is the ambiguity guard: the top candidate must lead
	// the runner-up by at least this much.
	autoMatchMinGap = 12

	autoMatchCandidateLimit = 5
	defaultToleranceDays    = 3
	maxToleranceDays        = 10
	defaultCandidateLimit   = 10
	maxCandidateLimit       = 50
	candidateListTolerance  = 7
)

// matchingServiceImpl implements the MatchingSvc interface.
type matchingServiceImpl struct {
	BaseService
	statementRepo portsrepo.StatementRepositoryFacade
	search        candidateSearch
	applier       portssvc.ReconciliationApplierSvc
}

// NewMatchingService creates the candidate search and batch matching engine.
func NewMatchingService(statementRepo portsrepo.StatementRepositoryFacade, payableRepo portsrepo.PayableReader, applier portssvc.ReconciliationApplierSvc) portssvc.MatchingSvc {
	return &matchingServiceImpl{
		statementRepo: statementRepo,
		search:        candidateSearch{payableRepo: payableRepo},
		applier:       applier,
	}
}

var _ portssvc.MatchingSvc = (*matchingServiceImpl)(nil)

func (s *matchingServiceImpl) ListCandidates(ctx context.Context, lineID, tenantID string, limit int) ([]dto.CandidateResponse, error) {
	line, err := s.statementRepo.FindLineByID(ctx, lineID, tenantID)
	if err != nil {
		return nil, err
	}

	limit = normalizeLimit(limit, defaultCandidateLimit, maxCandidateLimit)

	candidates, err := s.search.find(ctx, line, tenantID, limit, candidateListTolerance)
	if err != nil {
		s.LogError(ctx, err, "Candidate search failed", slog.String("line_id", lineID))
		return nil, err
	}

	responses := make([]dto.CandidateResponse, len(candidates))
	for i, candidate := range candidates {
		responses[i] = toCandidateResponse(candidate)
	}
	return responses, nil
}

// RunAutomaticMatching processes the import's unreconciled debit lines
// strictly sequentially: the ambiguity guard and the audit ordering are
// defined relative to one evaluation order. A failure on one line is reported
// in its outcome and does not abort the remaining lines.
func (s *matchingServiceImpl) RunAutomaticMatching(ctx context.Context, importID, tenantID, actorID string, toleranceDays *int) (*dto.MatchRunResult, error) {
	if _, err := s.statementRepo.FindImportByID(ctx, importID, tenantID); err != nil {
		return nil, err
	}

	tolerance := defaultToleranceDays
	if toleranceDays != nil {
		tolerance = *toleranceDays
		if tolerance < 0 {
			tolerance = 0
		}
		if tolerance > maxToleranceDays {
			tolerance = maxToleranceDays
		}
	}

	pending, err := s.statementRepo.ListPendingDebitLines(ctx, importID, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load pending debit lines", slog.String("import_id", importID))
		return nil, err
	}

	result := &dto.MatchRunResult{
		ImportID: importID,
		Analyzed: len(pending),
		Outcomes: []dto.MatchOutcome{},
	}

	for i := range pending {
		line := &pending[i]

		candidates, err := s.search.find(ctx, line, tenantID, autoMatchCandidateLimit, tolerance)
		if err != nil {
			s.LogError(ctx, err, "Candidate search failed during batch matching", slog.String("line_id", line.LineID))
			result.Outcomes = append(result.Outcomes, dto.MatchOutcome{LineID: line.LineID, Error: err.Error()})
			continue
		}
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		if best.Score < autoMatchMinScore {
			continue
		}
		if len(candidates) > 1 && best.Score-candidates[1].Score < autoMatchMinGap {
			s.LogDebug(ctx, "Ambiguity guard skipped line",
				slog.String("line_id", line.LineID),
				slog.Int("top_score", best.Score),
				slog.Int("second_score", candidates[1].Score))
			continue
		}

		if err := s.applier.ApplyAutomaticMatch(ctx, line, best.Payable, actorID, best.Score, best.Criteria); err != nil {
			s.LogError(ctx, err, "Failed to apply automatic match",
				slog.String("line_id", line.LineID),
				slog.String("payable_id", best.Payable.PayableID))
			result.Outcomes = append(result.Outcomes, dto.MatchOutcome{LineID: line.LineID, Error: err.Error()})
			continue
		}

		result.Matched++
		result.Outcomes = append(result.Outcomes, dto.MatchOutcome{
			LineID:    line.LineID,
			PayableID: best.Payable.PayableID,
			Score:     best.Score,
			Criteria:  best.Criteria,
		})
	}

	result.Pending = result.Analyzed - result.Matched

	s.LogInfo(ctx, "Automatic matching run completed",
		slog.String("import_id", importID),
		slog.Int("analyzed", result.Analyzed),
		slog.Int("matched", result.Matched),
		slog.Int("pending", result.Pending))

	return result, nil
}

func toCandidateResponse(candidate scoredCandidate) dto.CandidateResponse {
	payable := candidate.Payable
	resp := dto.CandidateResponse{
		PayableID:      payable.PayableID,
		Number:         payable.DisplayNumber(),
		DocumentNumber: payable.DocumentNumber,
		Description:    payable.Description,
		SupplierName:   payable.SupplierName,
		TotalValue:     payable.TotalAmount.Round(2),
		PaidValue:      payable.SettledAmount(),
		Score:          candidate.Score,
		Criteria:       candidate.Criteria,
	}
	if payable.PaidAt != nil {
		s := payable.PaidAt.Format("2006-01-02")
		resp.PaidDate = &s
	}
	if payable.DueAt != nil {
		s := payable.DueAt.Format("2006-01-02")
		resp.DueDate = &s
	}
	if resp.Criteria == nil {
		resp.Criteria = []string{}
	}
	return resp
}
