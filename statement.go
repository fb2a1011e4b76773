package perfdash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// A statement that cannot yield a balance is skipped, never fatal. These
// sentinels name the reason.
var (
	ErrNoBalance        = errors.New("no plausible balance found")
	ErrClosureStatement = errors.New("statement marks account transfer/closure")
	ErrNoFilenameDate   = errors.New("no period-end date in filename")
)

// StatementBalance is an account value extracted from one periodic statement.
// Statement balances are ground truth: they always win over estimated values.
type StatementBalance struct {
	Date         Date
	AccountValue float64
	SourceFile   string
}

// balancePattern is one step of the extraction cascade: a labeled-value
// regexp and the minimum value it is allowed to produce. The floor filters
// out page numbers, per-position values and footnote amounts that the looser
// patterns would otherwise latch onto.
type balancePattern struct {
	re  *regexp.Regexp
	min float64
}

const amountGroup = `\$?\s*([\d,]+(?:\.\d{1,2})?)`

// defaultBalancePatterns is the ordered cascade applied to statement text.
// Most specific label first; the bare "Value $X" form is a last resort with a
// higher plausibility floor.
var defaultBalancePatterns = []balancePattern{
	{regexp.MustCompile(`(?i)Ending\s+Account\s+Value[^\d$]{0,40}` + amountGroup), 100},
	{regexp.MustCompile(`(?i)Ending\s+Value[^\d$]{0,40}` + amountGroup), 100},
	{regexp.MustCompile(`(?i)Total\s+Account\s+Value[^\d$]{0,40}` + amountGroup), 100},
	{regexp.MustCompile(`(?i)Portfolio\s+Value[^\d$]{0,40}` + amountGroup), 100},
	{regexp.MustCompile(`(?i)Account\s+Value[^\d$]{0,40}` + amountGroup), 1000},
	{regexp.MustCompile(`(?i)Value\s+` + amountGroup), 1000},
}

// closureMarkers are phrases that identify transfer-out or closure
// statements, whose "ending value" is an artifact, not a real balance.
var closureMarkers = []string{
	"account transferred",
	"successfully transferred",
	"zero balance and no positions",
}

// filenameDateREs are the filename token patterns carrying the statement
// period-end date, tried in order.
var filenameDateREs = []*regexp.Regexp{
	regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
	regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`),
	regexp.MustCompile(`(\d{2})-(\d{2})-(\d{4})`),
}

// ParseFilenameDate extracts the statement period-end date embedded in a
// statement filename. Supported token shapes are YYYY-MM-DD, YYYY_MM_DD and
// MM-DD-YYYY. A filename with no token fails the whole document.
func ParseFilenameDate(name string) (Date, error) {
	base := filepath.Base(name)
	for i, re := range filenameDateREs {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		var y, mo, d int
		if i == 2 { // MM-DD-YYYY
			mo, d, y = atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3])
		} else {
			y, mo, d = atoiOrZero(m[1]), atoiOrZero(m[2]), atoiOrZero(m[3])
		}
		if mo < 1 || mo > 12 || d < 1 || d > 31 {
			continue
		}
		return NewDate(y, time.Month(mo), d), nil
	}
	return Date{}, fmt.Errorf("%s: %w", base, ErrNoFilenameDate)
}

// ExtractBalance runs the pattern cascade over statement text and returns
// the first match above its plausibility floor.
func ExtractBalance(text string, patterns []balancePattern) (float64, error) {
	lower := strings.ToLower(text)
	for _, marker := range closureMarkers {
		if strings.Contains(lower, marker) {
			return 0, ErrClosureStatement
		}
	}
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v := ParseCurrency(m[1])
		if v > p.min {
			return v, nil
		}
	}
	return 0, ErrNoBalance
}

// Skip records one statement that was excluded and why, for audit.
type Skip struct {
	File   string
	Reason string
}

// Extractor turns a directory of statement documents into a month-keyed
// balance map.
type Extractor struct {
	Log      zerolog.Logger
	Cache    *ExtractCache // optional; memoizes text extraction across accounts
	Patterns []balancePattern

	// Anomaly gate: reject a balance that drops more than AnomalyDrop from
	// the last accepted one AND lands below AnomalyFloor. Either condition
	// alone is a legitimate market move or a small account.
	AnomalyDrop  float64
	AnomalyFloor float64
}

// NewExtractor returns an Extractor with the default cascade and thresholds.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{
		Log:          log,
		Patterns:     defaultBalancePatterns,
		AnomalyDrop:  0.90,
		AnomalyFloor: 10_000,
	}
}

// ExtractDir scans a directory of .pdf and .txt statements and returns the
// accepted balances keyed by calendar month, plus the skipped files. Text
// extraction runs in parallel across files (each file's extraction is pure);
// acceptance runs sequentially in date order so the anomaly gate always
// compares against the most recently accepted balance.
func (e *Extractor) ExtractDir(dir string) (map[Month]StatementBalance, []Skip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read statement directory: %w", err)
	}

	type candidate struct {
		path string
		date Date
		text string
		err  error
	}

	var candidates []*candidate
	var skips []Skip
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".pdf" && ext != ".txt" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		date, err := ParseFilenameDate(entry.Name())
		if err != nil {
			e.Log.Warn().Str("file", path).Str("reason", err.Error()).Msg("statement skipped")
			skips = append(skips, Skip{File: path, Reason: err.Error()})
			continue
		}
		candidates = append(candidates, &candidate{path: path, date: date})
	}

	var wg sync.WaitGroup
	for _, c := range candidates {
		wg.Add(1)
		go func(c *candidate) {
			defer wg.Done()
			c.text, c.err = extractText(c.path, e.Cache)
		}(c)
	}
	wg.Wait()

	// Oldest first, so the anomaly gate sees balances in statement order.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].date.Before(candidates[j].date)
	})

	balances := make(map[Month]StatementBalance)
	var lastAccepted float64
	for _, c := range candidates {
		if c.err != nil {
			e.Log.Warn().Str("file", c.path).Str("reason", c.err.Error()).Msg("statement skipped")
			skips = append(skips, Skip{File: c.path, Reason: c.err.Error()})
			continue
		}
		value, err := ExtractBalance(c.text, e.Patterns)
		if err != nil {
			e.Log.Warn().Str("file", c.path).Str("reason", err.Error()).Msg("statement skipped")
			skips = append(skips, Skip{File: c.path, Reason: err.Error()})
			continue
		}
		if lastAccepted > 0 && value < lastAccepted*(1-e.AnomalyDrop) && value < e.AnomalyFloor {
			reason := fmt.Sprintf("implausible drop from %.2f to %.2f, likely mis-extraction", lastAccepted, value)
			e.Log.Warn().Str("file", c.path).Str("reason", reason).Msg("statement rejected")
			skips = append(skips, Skip{File: c.path, Reason: reason})
			continue
		}

		month := c.date.Month()
		if prev, ok := balances[month]; ok && c.date.Before(prev.Date) {
			// Keep the chronologically later statement of the month.
			continue
		}
		balances[month] = StatementBalance{Date: c.date, AccountValue: value, SourceFile: c.path}
		lastAccepted = value
		e.Log.Info().Str("file", c.path).Str("date", c.date.String()).Float64("value", value).
			Msg("statement accepted")
	}

	return balances, skips, nil
}
