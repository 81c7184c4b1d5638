package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/conectcrm/conciliador/internal/core/domain"
	portsrepo "github.com/conectcrm/conciliador/internal/core/ports/repositories"
	"github.com/conectcrm/conciliador/internal/statement"
)

// Additive score contributions. Criteria are independent: a candidate that
// misses one criterion can still qualify through the others.
const (
	scoreExactValue    = 55 // amount within one cent
	scoreCloseValue    = 30 // amount within 1.00
	scoreNearValue     = 15 // amount within 5.00
	scoreSameDay       = 25
	scoreCloseDate     = 18 // within 2 days
	scoreDateWindow    = 10 // within 5 days
	scoreSameAccount   = 15
	scoreReferenceHit  = 35
	maxReferenceTokens = 10
	minTokenLength     = 3
)

// Candidate criterion labels, reported to callers and recorded in the audit log.
const (
	criterionExactValue      = "exact_value"
	criterionCloseValue      = "approximate_value"
	criterionNearValue       = "tolerable_value"
	criterionSameDay         = "same_day"
	criterionCloseDate       = "close_date"
	criterionDateWindow      = "date_window"
	criterionSameBankAccount = "same_bank_account"
	criterionDocReference    = "document_reference"
)

var (
	centTolerance = decimal.New(1, -2) // 0.01
	oneUnit       = decimal.NewFromInt(1)
	fiveUnits     = decimal.NewFromInt(5)
)

// scoredCandidate pairs a payable with its score against one statement line.
type scoredCandidate struct {
	Payable  domain.Payable
	Score    int
	Criteria []string
}

// candidateSearch queries the payables ledger around a statement line and
// ranks the results by score.
type candidateSearch struct {
	payableRepo portsrepo.PayableReader
}

// find returns up to limit candidates for the line, score descending. The
// repository's own ordering (paid date desc, created desc) is the stable
// tie-break for equal scores.
func (cs candidateSearch) find(ctx context.Context, line *domain.StatementLine, tenantID string, limit, toleranceDays int) ([]scoredCandidate, error) {
	if limit <= 0 {
		limit = 10
	}
	if toleranceDays < 0 {
		toleranceDays = 0
	}
	if toleranceDays > 30 {
		toleranceDays = 30
	}

	windowDays := toleranceDays
	if windowDays < 5 {
		windowDays = 5
	}
	from := line.Date.AddDate(0, 0, -windowDays)
	to := line.Date.AddDate(0, 0, windowDays)

	fetchLimit := limit * 5
	if fetchLimit < 50 {
		fetchLimit = 50
	}

	payables, err := cs.payableRepo.QueryPaidPayables(ctx, tenantID, from, to, line.BankAccountID, fetchLimit)
	if err != nil {
		return nil, err
	}

	candidates := make([]scoredCandidate, 0, len(payables))
	for _, payable := range payables {
		candidate := scoreCandidate(line, payable)
		if candidate.Score > 0 {
			candidates = append(candidates, candidate)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// scoreCandidate computes the additive score of one payable against a line.
func scoreCandidate(line *domain.StatementLine, payable domain.Payable) scoredCandidate {
	var criteria []string
	score := 0

	valueDiff := line.Amount.Sub(payable.SettledAmount()).Abs()
	switch {
	case valueDiff.LessThanOrEqual(centTolerance):
		score += scoreExactValue
		criteria = append(criteria, criterionExactValue)
	case valueDiff.LessThanOrEqual(oneUnit):
		score += scoreCloseValue
		criteria = append(criteria, criterionCloseValue)
	case valueDiff.LessThanOrEqual(fiveUnits):
		score += scoreNearValue
		criteria = append(criteria, criterionNearValue)
	}

	if payable.PaidAt != nil {
		switch delta := daysBetween(line.Date, *payable.PaidAt); {
		case delta == 0:
			score += scoreSameDay
			criteria = append(criteria, criterionSameDay)
		case delta <= 2:
			score += scoreCloseDate
			criteria = append(criteria, criterionCloseDate)
		case delta <= 5:
			score += scoreDateWindow
			criteria = append(criteria, criterionDateWindow)
		}
	}

	if line.BankAccountID != "" && payable.BankAccountID == line.BankAccountID {
		score += scoreSameAccount
		criteria = append(criteria, criterionSameBankAccount)
	}

	if tokens := referenceTokens(line); len(tokens) > 0 {
		haystack := statement.NormalizeText(strings.Join([]string{
			payable.Number,
			payable.DocumentNumber,
			payable.Description,
			payable.SupplierName,
		}, " "))
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				score += scoreReferenceHit
				criteria = append(criteria, criterionDocReference)
				break
			}
		}
	}

	return scoredCandidate{Payable: payable, Score: score, Criteria: criteria}
}

// referenceTokens derives the normalized tokens probed against a payable's
// textual fields: the line's document, reference and description words,
// deduplicated and capped.
func referenceTokens(line *domain.StatementLine) []string {
	raw := []string{line.Document, line.Reference}
	raw = append(raw, strings.Fields(line.Description)...)

	seen := make(map[string]struct{}, len(raw))
	tokens := make([]string, 0, len(raw))
	for _, value := range raw {
		token := statement.NormalizeText(value)
		if len(token) < minTokenLength {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
		if len(tokens) == maxReferenceTokens {
			break
		}
	}
	return tokens
}

// daysBetween returns the absolute whole-day distance between two instants,
// compared at day granularity.
func daysBetween(a, b time.Time) int {
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	delta := int(aDay.Sub(bDay).Hours() / 24)
	if delta < 0 {
		delta = -delta
	}
	return delta
}
