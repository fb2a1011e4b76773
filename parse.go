package perfdash

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoDate is returned when a string contains no recognizable date token.
// Callers must treat it as a hard extraction failure for the document at
// hand; substituting the current date would corrupt month bucketing.
var ErrNoDate = errors.New("no date token found")

var usDateRE = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)

// ParseCurrency parses a tolerant currency string into a float64 dollar
// amount. It accepts "$1,234.56", "(500.00)" (negative), "--", "" and "N/A"
// (zero), and trailing "%" signs. It never fails: anything that does not
// reduce to a number parses as 0.
func ParseCurrency(s string) float64 {
	return ParseCurrencyExact(s).Float()
}

// ParseCurrencyExact is ParseCurrency with an exact decimal result. The
// classifier uses it so that running totals built from ledger rows add up
// without binary-float drift.
func ParseCurrencyExact(s string) Money {
	s = strings.TrimSpace(s)
	switch s {
	case "", "--", "N/A", "n/a":
		return Money{}
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[1:]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}
	}
	if negative {
		d = d.Neg()
	}
	return M(d)
}

// ParseStatementDate extracts the first MM/DD/YYYY token from a string and
// returns it as a Date. Ledger exports use forms like
// "08/15/2024 as of 08/14/2024"; only the first token counts.
//
// A string with no date token returns ErrNoDate. This is deliberately a hard
// failure, not a fallback to today.
func ParseStatementDate(s string) (Date, error) {
	m := usDateRE.FindStringSubmatch(s)
	if m == nil {
		return Date{}, ErrNoDate
	}
	month := atoiOrZero(m[1])
	day := atoiOrZero(m[2])
	year := atoiOrZero(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, ErrNoDate
	}
	return NewDate(year, time.Month(month), day), nil
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
