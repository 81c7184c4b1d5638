package statement_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conectcrm/conciliador/internal/statement"
)

func TestNormalizeOFX_ClosedTags(t *testing.T) {
	content := `
<OFX>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>CREDIT</TRNTYPE>
<DTPOSTED>20260110120000[-3:BRT]</DTPOSTED>
<TRNAMT>300.00</TRNAMT>
<FITID>FIT001</FITID>
<CHECKNUM>CHK1</CHECKNUM>
<MEMO>TED RECEBIDA</MEMO>
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT</TRNTYPE>
<DTPOSTED>20260111</DTPOSTED>
<TRNAMT>-150.00</TRNAMT>
<FITID>FIT002</FITID>
<MEMO>PAGTO BOLETO</MEMO>
<BALAMT>1000.50</BALAMT>
</STMTTRN>
</BANKTRANLIST>
</OFX>`

	lines, rowErrors := statement.Normalize(statement.FormatOFX, []byte(content))

	require.Len(t, lines, 2)
	assert.Empty(t, rowErrors)

	assert.Equal(t, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), lines[0].Date)
	assert.Equal(t, statement.KindCredit, lines[0].Kind)
	assert.Equal(t, "TED RECEBIDA", lines[0].Description)
	assert.Equal(t, "FIT001", lines[0].Reference)
	assert.Equal(t, "CHK1", lines[0].Document)

	assert.Equal(t, statement.KindDebit, lines[1].Kind)
	assert.True(t, lines[1].Amount.Equal(decimal.RequireFromString("150.00")))
	require.NotNil(t, lines[1].Balance)
	assert.True(t, lines[1].Balance.Equal(decimal.RequireFromString("1000.50")))
}

func TestNormalizeOFX_SGMLOpenTags(t *testing.T) {
	// Older exports leave tags unterminated.
	content := "<OFX>\r\n<STMTTRN>\r\n<DTPOSTED>20260115\r\n<TRNAMT>-42.90\r\n<FITID>ABC123\r\n<NAME>FARMACIA S&amp;A\r\n</STMTTRN>\r\n</OFX>"

	lines, rowErrors := statement.Normalize(statement.FormatOFX, []byte(content))

	require.Len(t, lines, 1)
	assert.Empty(t, rowErrors)
	assert.Equal(t, "FARMACIA S&A", lines[0].Description, "NAME is the fallback and entities are decoded")
	assert.Equal(t, "ABC123", lines[0].Reference)
	assert.Equal(t, statement.KindDebit, lines[0].Kind)
}

func TestNormalizeOFX_DescriptionAndDocumentFallbacks(t *testing.T) {
	content := `<STMTTRN>
<DTPOSTED>20260120</DTPOSTED>
<TRNAMT>10.00</TRNAMT>
<REFNUM>REF9</REFNUM>
</STMTTRN>`

	lines, rowErrors := statement.Normalize(statement.FormatOFX, []byte(content))

	require.Len(t, lines, 1)
	assert.Empty(t, rowErrors)
	assert.Equal(t, "OFX entry 1", lines[0].Description)
	assert.Equal(t, "REF9", lines[0].Document, "REFNUM stands in when CHECKNUM is absent")
}

func TestNormalizeOFX_NoTransactionBlocks(t *testing.T) {
	lines, rowErrors := statement.Normalize(statement.FormatOFX, []byte("<OFX><SIGNONMSGSRSV1></SIGNONMSGSRSV1></OFX>"))

	assert.Empty(t, lines)
	require.Len(t, rowErrors, 1)
	assert.Contains(t, rowErrors[0].Message, "STMTTRN")
}

func TestNormalizeOFX_BadBlockReportedOthersKept(t *testing.T) {
	content := `<STMTTRN>
<DTPOSTED>garbage</DTPOSTED>
<TRNAMT>1.00</TRNAMT>
</STMTTRN>
<STMTTRN>
<DTPOSTED>20260121</DTPOSTED>
<TRNAMT>2.00</TRNAMT>
</STMTTRN>`

	lines, rowErrors := statement.Normalize(statement.FormatOFX, []byte(content))

	require.Len(t, lines, 1)
	require.Len(t, rowErrors, 1)
	assert.Equal(t, 1, rowErrors[0].Line)
}
