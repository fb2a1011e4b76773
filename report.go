package perfdash

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Report is the output artifact for one account: the sole contract with the
// presentation layer. Top-level keys and their nesting are must-preserve.
type Report struct {
	AccountName    string
	OpeningBalance float64
	Points         []Point
	Transactions   []Transaction // exported newest first
	Summary        Summary
	LastUpdated    time.Time
}

// MarshalJSON emits the document with its fixed top-level key order:
// account, performance, transactions, summary, lastUpdated. Everything
// except lastUpdated is a pure function of the inputs, so two runs over
// identical inputs differ only in that one field.
func (r Report) MarshalJSON() ([]byte, error) {
	var account jsonObjectWriter
	account.Append("name", r.AccountName)
	account.Optional("openingBalance", r.OpeningBalance)
	account.Append("statementCount", statementCount(r.Points))
	if len(r.Points) > 0 {
		account.Append("firstMonth", r.Points[0].Date.Month().String())
		account.Append("lastMonth", r.Points[len(r.Points)-1].Date.Month().String())
	}

	var performance jsonObjectWriter
	if r.Points == nil {
		performance.Append("timeSeriesData", []Point{})
	} else {
		performance.Append("timeSeriesData", r.Points)
	}

	txs := r.Transactions
	if txs == nil {
		txs = []Transaction{}
	}

	var w jsonObjectWriter
	w.Append("account", &account)
	w.Append("performance", &performance)
	w.Append("transactions", txs)
	w.Append("summary", r.Summary)
	w.Append("lastUpdated", r.LastUpdated.UTC().Format(time.RFC3339))
	return w.MarshalJSON()
}

func statementCount(points []Point) int {
	n := 0
	for _, p := range points {
		if !p.Estimated {
			n++
		}
	}
	return n
}

// WriteFile writes the report JSON atomically: the document lands in a
// temporary file first and is renamed into place, so a consumer never
// observes a partially written result.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("cannot create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot move report into place: %w", err)
	}
	return nil
}

// LoadReport reads a previously written report into a generic document, the
// form the query subcommand operates on.
func LoadReport(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read report: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse report: %w", err)
	}
	return doc, nil
}
