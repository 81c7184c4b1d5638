package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	currencyPrefixRe = regexp.MustCompile(`(?i)R\$`)
	numberJunkRe     = regexp.MustCompile(`[^0-9.+-]`)

	ofxDateRe    = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})`)
	isoDateRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	brSlashRe    = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	brDashDateRe = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
)

// parseAmount parses a monetary value tolerating currency prefixes, thousands
// separators and trailing-minus notation. When both '.' and ',' occur, the one
// appearing later in the string is the decimal separator. The result is
// rounded to two decimals.
func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, false
	}

	s = strings.ReplaceAll(s, " ", "")
	s = currencyPrefixRe.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	if strings.HasSuffix(s, "-") {
		s = "-" + strings.TrimSuffix(s, "-")
	}

	commaIdx := strings.LastIndex(s, ",")
	dotIdx := strings.LastIndex(s, ".")
	switch {
	case commaIdx >= 0 && dotIdx >= 0:
		if commaIdx > dotIdx {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commaIdx >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	s = numberJunkRe.ReplaceAllString(s, "")

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value.Round(2), true
}

// parseDate accepts OFX YYYYMMDD (with optional time suffix), ISO YYYY-MM-DD,
// and Brazilian DD/MM/YYYY or DD-MM-YYYY. The reconstructed date must
// round-trip exactly, so "32/01/2026" is rejected rather than wrapped.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if m := ofxDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := brSlashRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := brDashDateRe.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}

	return time.Time{}, false
}

func buildDate(year, month, day string) (time.Time, bool) {
	y := atoi(year)
	m := atoi(month)
	d := atoi(day)

	date := time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
	if date.Year() != y || int(date.Month()) != m || date.Day() != d {
		return time.Time{}, false
	}
	return date, true
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
