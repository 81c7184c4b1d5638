package statement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"brazilian thousands", "R$ 1.234,56", "1234.56", true},
		{"us thousands", "1,234.56", "1234.56", true},
		{"plain decimal", "1234.5", "1234.5", true},
		{"comma decimal", "150,00", "150", true},
		{"trailing minus", "150,00-", "-150", true},
		{"leading minus", "-99.90", "-99.9", true},
		{"currency and spaces", "R$ 2 500,00", "2500", true},
		{"rounds to two decimals", "10.999", "11", true},
		{"letters", "abc", "", false},
		{"empty", "", "", false},
		{"only currency", "R$", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAmount(tt.raw)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got.String())
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"ofx date", "20260110", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), true},
		{"ofx date with time and zone", "20260110235959[-3:BRT]", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), true},
		{"iso", "2026-01-10", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), true},
		{"brazilian slash", "10/01/2026", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), true},
		{"brazilian dash", "10-01-2026", time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), true},
		{"day overflow rejected", "32/01/2026", time.Time{}, false},
		{"month overflow rejected", "10/13/2026", time.Time{}, false},
		{"february 30 rejected", "30/02/2026", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseDate(tt.raw)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, got.Equal(tt.want), "got %s", got)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "data_lancamento", NormalizeHeader("Data Lançamento"))
	assert.Equal(t, "data_lancamento", NormalizeHeader("data_lancamento"))
	assert.Equal(t, "descricao", NormalizeHeader("  Descrição  "))
	assert.Equal(t, "valor", NormalizeHeader("VALOR"))
	assert.Equal(t, "", NormalizeHeader("***"))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "pagto fornecedor nf 1234", NormalizeText("PAGTO. FORNECEDOR - NF#1234"))
	assert.Equal(t, "conciliacao", NormalizeText("Conciliação"))
	assert.Equal(t, "", NormalizeText("  -- "))
}
