package statement

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	stmtTrnRe = regexp.MustCompile(`(?is)<STMTTRN>.*?</STMTTRN>`)

	// OFX tags read from each transaction block.
	closedTagRes = map[string]*regexp.Regexp{}
	openTagRes   = map[string]*regexp.Regexp{}

	ofxEntityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

func init() {
	for _, tag := range []string{"DTPOSTED", "TRNAMT", "MEMO", "NAME", "FITID", "CHECKNUM", "REFNUM", "BALAMT"} {
		closedTagRes[tag] = regexp.MustCompile(`(?is)<` + tag + `>(.*?)</` + tag + `>`)
		openTagRes[tag] = regexp.MustCompile(`(?i)<` + tag + `>([^<` + "\r\n" + `]+)`)
	}
}

func normalizeOFX(content string) ([]Line, []RowError) {
	blocks := stmtTrnRe.FindAllString(content, -1)
	if len(blocks) == 0 {
		return nil, []RowError{{Message: "OFX file has no <STMTTRN> blocks to import"}}
	}

	var lines []Line
	var rowErrors []RowError

	for i, block := range blocks {
		blockNumber := i + 1

		date, ok := parseDate(extractOFXTag(block, "DTPOSTED"))
		if !ok {
			rowErrors = append(rowErrors, RowError{Line: blockNumber, Message: "invalid OFX transaction date"})
			continue
		}

		signed, ok := parseAmount(extractOFXTag(block, "TRNAMT"))
		if !ok {
			rowErrors = append(rowErrors, RowError{Line: blockNumber, Message: "invalid OFX transaction amount"})
			continue
		}

		kind := KindCredit
		if signed.IsNegative() {
			kind = KindDebit
		}

		description := extractOFXTag(block, "MEMO")
		if description == "" {
			description = extractOFXTag(block, "NAME")
		}
		if description == "" {
			description = fmt.Sprintf("OFX entry %d", blockNumber)
		}

		document := extractOFXTag(block, "CHECKNUM")
		if document == "" {
			document = extractOFXTag(block, "REFNUM")
		}

		line := Line{
			Date:        date,
			Description: description,
			Document:    document,
			Reference:   extractOFXTag(block, "FITID"),
			Kind:        kind,
			Amount:      signed.Abs().Round(2),
			Raw: map[string]string{
				"dtposted": extractOFXTag(block, "DTPOSTED"),
				"trnamt":   extractOFXTag(block, "TRNAMT"),
				"memo":     description,
				"fitid":    extractOFXTag(block, "FITID"),
				"checknum": document,
			},
		}
		if balance, ok := parseAmount(extractOFXTag(block, "BALAMT")); ok {
			line.Balance = &balance
		}
		lines = append(lines, line)
	}

	return lines, rowErrors
}

// extractOFXTag reads a tag value from a transaction block, accepting both
// well-formed <TAG>value</TAG> pairs and the unterminated SGML style
// <TAG>value that older bank exports still emit.
func extractOFXTag(block, tag string) string {
	if re, ok := closedTagRes[tag]; ok {
		if m := re.FindStringSubmatch(block); m != nil && strings.TrimSpace(m[1]) != "" {
			return ofxEntityReplacer.Replace(strings.TrimSpace(m[1]))
		}
	}
	if re, ok := openTagRes[tag]; ok {
		if m := re.FindStringSubmatch(block); m != nil && strings.TrimSpace(m[1]) != "" {
			return ofxEntityReplacer.Replace(strings.TrimSpace(m[1]))
		}
	}
	return ""
}
