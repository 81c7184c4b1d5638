package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/conectcrm/conciliador/internal/core/domain"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC)
}

func paidOn(d int) *time.Time {
	t := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestScoreCandidate(t *testing.T) {
	tests := []struct {
		name         string
		line         domain.StatementLine
		payable      domain.Payable
		wantScore    int
		wantCriteria []string
	}{
		{
			name: "all criteria hit",
			line: domain.StatementLine{
				BankAccountID: "acc-1",
				Date:          day(10),
				Description:   "PAGTO NF 4512",
				Document:      "4512",
				Amount:        decimal.RequireFromString("180.50"),
			},
			payable: domain.Payable{
				BankAccountID:  "acc-1",
				DocumentNumber: "NF-4512",
				PaidAmount:     decimal.RequireFromString("180.50"),
				PaidAt:         paidOn(10),
			},
			wantScore:    130,
			wantCriteria: []string{"exact_value", "same_day", "same_bank_account", "document_reference"},
		},
		{
			name: "close value within one unit",
			line: domain.StatementLine{
				Date:   day(10),
				Amount: decimal.RequireFromString("100.80"),
			},
			payable: domain.Payable{
				PaidAmount: decimal.RequireFromString("100.00"),
				PaidAt:     paidOn(12),
			},
			wantScore:    48,
			wantCriteria: []string{"approximate_value", "close_date"},
		},
		{
			name: "near value in outer date window",
			line: domain.StatementLine{
				Date:   day(10),
				Amount: decimal.RequireFromString("104.00"),
			},
			payable: domain.Payable{
				PaidAmount: decimal.RequireFromString("100.00"),
				PaidAt:     paidOn(15),
			},
			wantScore:    25,
			wantCriteria: []string{"tolerable_value", "date_window"},
		},
		{
			name: "settled amount falls back to total",
			line: domain.StatementLine{
				Date:   day(10),
				Amount: decimal.RequireFromString("250.00"),
			},
			payable: domain.Payable{
				TotalAmount: decimal.RequireFromString("250.00"),
				PaidAt:      paidOn(10),
			},
			wantScore:    80,
			wantCriteria: []string{"exact_value", "same_day"},
		},
		{
			name: "unpaid date scores no date criterion",
			line: domain.StatementLine{
				Date:   day(10),
				Amount: decimal.RequireFromString("100.00"),
			},
			payable: domain.Payable{
				PaidAmount: decimal.RequireFromString("100.00"),
			},
			wantScore:    55,
			wantCriteria: []string{"exact_value"},
		},
		{
			name: "account match needs the line to carry an account",
			line: domain.StatementLine{
				Date:   day(10),
				Amount: decimal.RequireFromString("9.00"),
			},
			payable: domain.Payable{
				BankAccountID: "",
				PaidAmount:    decimal.RequireFromString("700.00"),
				PaidAt:        paidOn(25),
			},
			wantScore:    0,
			wantCriteria: nil,
		},
		{
			name: "reference hit through the supplier name",
			line: domain.StatementLine{
				Date:        day(10),
				Description: "PIX ENVIADO ACME",
				Amount:      decimal.RequireFromString("42.00"),
			},
			payable: domain.Payable{
				SupplierName: "Acme Ltda",
				PaidAmount:   decimal.RequireFromString("900.00"),
				PaidAt:       paidOn(10),
			},
			wantScore:    60,
			wantCriteria: []string{"same_day", "document_reference"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreCandidate(&tt.line, tt.payable)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Equal(t, tt.wantCriteria, got.Criteria)
		})
	}
}

func TestReferenceTokens(t *testing.T) {
	line := domain.StatementLine{
		Document:    "NF-4512",
		Reference:   "nf 4512",
		Description: "PAGTO NF-4512 ACME de",
	}

	tokens := referenceTokens(&line)

	// Document and the identical normalized reference collapse into one
	// token. Two-letter words are dropped.
	assert.Equal(t, []string{"nf 4512", "pagto", "acme"}, tokens)
}

func TestReferenceTokensCap(t *testing.T) {
	line := domain.StatementLine{
		Description: "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima",
	}

	tokens := referenceTokens(&line)

	assert.Len(t, tokens, 10)
	assert.NotContains(t, tokens, "kilo")
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{"same instant", day(10), day(10), 0},
		{"same day different hours", time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC), 0},
		{"adjacent days minutes apart", time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC), time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC), 1},
		{"order does not matter", day(5), day(12), 7},
		{"across month boundary", time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysBetween(tt.a, tt.b))
		})
	}
}
