package statement

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Column aliases probed in priority order. Headers arrive already normalized
// by NormalizeHeader, so Portuguese and English exports resolve the same way.
var (
	dateAliases        = []string{"data", "data_lancamento", "data_movimento", "dt_lancamento", "dtmov", "date"}
	amountAliases      = []string{"valor", "valor_lancamento", "valor_movimento", "amount", "trnamt"}
	creditAliases      = []string{"credito", "valor_credito", "entradas"}
	debitAliases       = []string{"debito", "valor_debito", "saidas"}
	descriptionAliases = []string{"descricao", "historico", "descricao_historico", "memo", "name", "descricao_movimento", "description"}
	documentAliases    = []string{"documento", "numero_documento", "checknum", "num_doc"}
	referenceAliases   = []string{"referencia", "referencia_externa", "fitid", "id_transacao", "id"}
	balanceAliases     = []string{"saldo", "saldo_pos_lancamento", "balance"}
)

const defaultDescription = "entry without description"

func normalizeCSV(content string) ([]Line, []RowError) {
	var rowErrors []RowError

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = sniffDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		rowErrors = append(rowErrors, RowError{Message: "CSV file has no data rows"})
		return nil, rowErrors
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
	}

	var lines []Line
	rowNumber := 1 // header is row 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNumber++
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Line:    rowNumber,
				Message: "failed to read CSV row: " + err.Error(),
			})
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if col == "" || i >= len(record) {
				continue
			}
			row[col] = strings.TrimSpace(record[i])
		}

		line, rowErr := normalizeCSVRow(row, rowNumber, strings.Join(record, string(reader.Comma)))
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		lines = append(lines, *line)
	}

	if len(lines) == 0 && len(rowErrors) == 0 {
		rowErrors = append(rowErrors, RowError{Message: "CSV file has no data rows"})
	}

	return lines, rowErrors
}

func normalizeCSVRow(row map[string]string, rowNumber int, raw string) (*Line, *RowError) {
	date, ok := parseDate(firstValue(row, dateAliases...))
	if !ok {
		return nil, &RowError{Line: rowNumber, Message: "invalid or missing transaction date", Raw: raw}
	}

	signed, ok := extractSignedAmount(row)
	if !ok {
		return nil, &RowError{Line: rowNumber, Message: "invalid or missing transaction amount", Raw: raw}
	}

	kind := KindCredit
	if signed.IsNegative() {
		kind = KindDebit
	}

	description := firstValue(row, descriptionAliases...)
	if description == "" {
		description = defaultDescription
	}

	line := Line{
		Date:        date,
		Description: description,
		Document:    firstValue(row, documentAliases...),
		Reference:   firstValue(row, referenceAliases...),
		Kind:        kind,
		Amount:      signed.Abs().Round(2),
		Raw:         row,
	}
	if balance, ok := parseAmount(firstValue(row, balanceAliases...)); ok {
		line.Balance = &balance
	}
	return &line, nil
}

// extractSignedAmount reads a combined value column, or failing that, the
// difference between separate credit and debit columns.
func extractSignedAmount(row map[string]string) (decimal.Decimal, bool) {
	if value, ok := parseAmount(firstValue(row, amountAliases...)); ok {
		return value, true
	}

	credit, hasCredit := parseAmount(firstValue(row, creditAliases...))
	debit, hasDebit := parseAmount(firstValue(row, debitAliases...))
	if !hasCredit && !hasDebit {
		return decimal.Decimal{}, false
	}
	return credit.Sub(debit).Round(2), true
}

// sniffDelimiter picks ';' when the first line carries more semicolons than
// commas; Brazilian bank exports commonly use semicolon-separated CSVs.
func sniffDelimiter(content string) rune {
	firstLine := content
	if idx := strings.IndexAny(content, "\r\n"); idx >= 0 {
		firstLine = content[:idx]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
