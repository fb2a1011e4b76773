package perfdash

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func sampleReport(t *testing.T) Report {
	t.Helper()
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January):  statementOn(NewDate(2024, time.January, 31), 100000),
		NewMonth(2024, time.February): statementOn(NewDate(2024, time.February, 29), 110000),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.February, 15), Type: Deposit, Description: "TRANSFER", Net: M(5000)},
	}
	benchmarks := flatBenchmarks(t, "flat")
	sb := NewSeriesBuilder(testLogger(), benchmarks)
	points := sb.Build(txs, balances)

	return Report{
		AccountName:  "brokerage",
		Points:       points,
		Transactions: txs,
		Summary:      Summarize(points, benchmarks),
		LastUpdated:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestReportKeyOrder(t *testing.T) {
	data, err := json.Marshal(sampleReport(t))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)

	// The top-level key order is part of the contract.
	keys := []string{`"account"`, `"performance"`, `"timeSeriesData"`, `"transactions"`, `"summary"`, `"lastUpdated"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, k)
		if idx < 0 {
			t.Fatalf("output missing key %s", k)
		}
		if idx < last {
			t.Errorf("key %s out of order", k)
		}
		last = idx
	}
}

func TestReportIdempotent(t *testing.T) {
	a, err := json.Marshal(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(sampleReport(t))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two marshals of identical inputs differ")
	}
}

func TestReportNoNaN(t *testing.T) {
	r := sampleReport(t)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, bad := range []string{"NaN", "Infinity", "null"} {
		if strings.Contains(string(data), bad) {
			t.Errorf("output contains %s", bad)
		}
	}
}

func TestReportEmptySeries(t *testing.T) {
	r := Report{AccountName: "empty", LastUpdated: time.Unix(0, 0)}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	perf, ok := doc["performance"].(map[string]any)
	if !ok {
		t.Fatal("missing performance object")
	}
	series, ok := perf["timeSeriesData"].([]any)
	if !ok || len(series) != 0 {
		t.Errorf("timeSeriesData = %v, want empty array", perf["timeSeriesData"])
	}
}

func TestWriteFileAtomicRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "brokerage.json")

	r := sampleReport(t)
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	doc, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport() error = %v", err)
	}
	m, ok := doc.(map[string]any)
	if !ok {
		t.Fatal("report did not decode into an object")
	}
	account, ok := m["account"].(map[string]any)
	if !ok || account["name"] != "brokerage" {
		t.Errorf("account = %v", m["account"])
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want just the report", len(entries))
	}
}
