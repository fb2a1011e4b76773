package perfdash

import (
	"math"
	"testing"
	"time"
)

func flatBenchmarks(t *testing.T, ids ...string) *Benchmarks {
	t.Helper()
	defs := make([]Benchmark, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, Benchmark{ID: id, DisplayName: id, Returns: map[Month]float64{}})
	}
	r, err := NewBenchmarks(defs...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func statementOn(date Date, value float64) StatementBalance {
	return StatementBalance{Date: date, AccountValue: value, SourceFile: date.String() + ".pdf"}
}

// Single clean account: one statement, one deposit, a second statement.
func TestBuildSingleCleanAccount(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January):  statementOn(NewDate(2024, time.January, 31), 100000),
		NewMonth(2024, time.February): statementOn(NewDate(2024, time.February, 29), 110000),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.February, 15), Type: Deposit, Net: M(5000)},
	}

	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t, "flat"))
	points := sb.Build(txs, balances)

	if len(points) != 2 {
		t.Fatalf("Build() returned %d points, want 2", len(points))
	}
	first, second := points[0], points[1]

	if !first.Principal.Equal(M(100000)) {
		t.Errorf("first principal = %v, want 100000 (the first statement balance)", first.Principal)
	}
	if first.AccountValue != 100000 || first.Estimated {
		t.Errorf("first value = %v estimated=%v, want statement-backed 100000", first.AccountValue, first.Estimated)
	}
	if !second.Principal.Equal(M(105000)) {
		t.Errorf("second principal = %v, want 105000", second.Principal)
	}
	if second.AccountValue != 110000 || second.Estimated {
		t.Errorf("second value = %v estimated=%v, want statement-backed 110000", second.AccountValue, second.Estimated)
	}
	if gain := second.AccountValue - second.Principal.Float(); gain != 5000 {
		t.Errorf("realized gain = %v, want 5000", gain)
	}
}

func TestBuildMonotonicMonths(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2023, time.October):  statementOn(NewDate(2023, time.October, 31), 50000),
		NewMonth(2024, time.February): statementOn(NewDate(2024, time.February, 29), 55000),
	}

	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	points := sb.Build(nil, balances)

	if len(points) != 5 {
		t.Fatalf("Build() returned %d points, want 5 (Oct..Feb, no gaps)", len(points))
	}
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Date, points[i].Date
		if cur.Month() != prev.Month().Next() {
			t.Errorf("point[%d] month %v does not follow %v", i, cur.Month(), prev.Month())
		}
		if !prev.Before(cur) {
			t.Errorf("point[%d] date %v not after %v", i, cur, prev)
		}
	}
	// The statement-less middle months are explicitly flagged estimates.
	for i := 1; i <= 3; i++ {
		if !points[i].Estimated {
			t.Errorf("point[%d] not flagged estimated", i)
		}
	}
}

// Principal deltas reconcile exactly: no floating point drift, no double counting.
func TestBuildPrincipalConservation(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 31), 10000),
		NewMonth(2024, time.June):    statementOn(NewDate(2024, time.June, 30), 20000),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.February, 3), Type: Deposit, Net: M(1000.10)},
		{Date: NewDate(2024, time.February, 20), Type: Deposit, Net: M(2000.20)},
		{Date: NewDate(2024, time.March, 5), Type: Withdrawal, Net: M(-500.05)},
		{Date: NewDate(2024, time.May, 9), Type: Deposit, Net: M(750.33)},
	}

	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	points := sb.Build(txs, balances)

	for i := 1; i < len(points); i++ {
		delta := points[i].Principal.Sub(points[i-1].Principal)
		flows := points[i].Deposits.Sub(points[i].Withdrawals)
		if !delta.Equal(flows) {
			t.Errorf("point[%d]: principal delta %v != deposits-withdrawals %v", i, delta, flows)
		}
	}
	// Withdrawal can decrease principal; nothing else can.
	if !points[2].Principal.LessThan(points[1].Principal) {
		t.Errorf("March principal %v not below February %v after withdrawal", points[2].Principal, points[1].Principal)
	}
}

// A flat 0%-return benchmark must reduce to pure principal tracking.
func TestBuildFlatBenchmarkTracksPrincipal(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 31), 10000),
		NewMonth(2024, time.April):   statementOn(NewDate(2024, time.April, 30), 16000),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.February, 10), Type: Deposit, Net: M(3000)},
		{Date: NewDate(2024, time.March, 10), Type: Withdrawal, Net: M(-1000)},
	}

	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t, "flat"))
	points := sb.Build(txs, balances)

	for i, p := range points {
		if diff := math.Abs(p.BenchmarkValues["flat"] - p.Principal.Float()); diff > 1e-9 {
			t.Errorf("point[%d]: flat benchmark %v != principal %v", i, p.BenchmarkValues["flat"], p.Principal)
		}
	}
}

// Benchmark trajectories absorb cash-flow timing: value compounds, then the
// month's principal delta is added.
func TestBuildBenchmarkAbsorbsCashFlows(t *testing.T) {
	r, err := NewBenchmarks(Benchmark{
		ID: "up",
		Returns: map[Month]float64{
			NewMonth(2024, time.February): 0.10,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January):  statementOn(NewDate(2024, time.January, 31), 10000),
		NewMonth(2024, time.February): statementOn(NewDate(2024, time.February, 29), 16100),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.February, 15), Type: Deposit, Net: M(5000)},
	}

	sb := NewSeriesBuilder(testLogger(), r)
	points := sb.Build(txs, balances)

	// 10000 * 1.10 + 5000
	if got := points[1].BenchmarkValues["up"]; math.Abs(got-16000) > 1e-9 {
		t.Errorf("benchmark value = %v, want 16000", got)
	}
}

func TestBuildNoStatementsEmptySeries(t *testing.T) {
	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	txs := []Transaction{{Date: NewDate(2024, time.January, 5), Type: Deposit, Net: M(1000)}}
	if points := sb.Build(txs, nil); points != nil {
		t.Errorf("Build() with no statements = %d points, want none", len(points))
	}
}

func TestBuildOpeningBalanceOverride(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 31), 100000),
	}
	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	sb.OpeningBalance = 80000
	points := sb.Build(nil, balances)

	if !points[0].Principal.Equal(M(80000)) {
		t.Errorf("principal = %v, want the 80000 override", points[0].Principal)
	}
	if points[0].AccountValue != 100000 {
		t.Errorf("account value = %v, want the statement's 100000", points[0].AccountValue)
	}
}

func TestBuildEstimatedValueProjectsLastReturnRate(t *testing.T) {
	balances := map[Month]StatementBalance{
		// Statement-backed month: value 12000 on principal 10000 => +20%.
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 31), 12000),
		NewMonth(2024, time.March):   statementOn(NewDate(2024, time.March, 31), 13000),
	}
	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	sb.OpeningBalance = 10000
	points := sb.Build(nil, balances)

	feb := points[1]
	if !feb.Estimated {
		t.Fatal("February point not flagged estimated")
	}
	if diff := math.Abs(feb.AccountValue - 12000); diff > 1e-9 {
		t.Errorf("February estimate = %v, want 12000 (principal x last return rate)", feb.AccountValue)
	}
}

func TestBuildMidMonthStatementUsed(t *testing.T) {
	balances := map[Month]StatementBalance{
		// Statement dated mid-month still anchors the month.
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 20), 42000),
	}
	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	points := sb.Build(nil, balances)

	if len(points) != 1 {
		t.Fatalf("Build() returned %d points, want 1", len(points))
	}
	if points[0].AccountValue != 42000 || points[0].Estimated {
		t.Errorf("point = %v estimated=%v, want statement-backed 42000", points[0].AccountValue, points[0].Estimated)
	}
	if points[0].Date != NewDate(2024, time.January, 31) {
		t.Errorf("point date = %v, want the month end", points[0].Date)
	}
}

func TestBuildLargeFees(t *testing.T) {
	balances := map[Month]StatementBalance{
		NewMonth(2024, time.January): statementOn(NewDate(2024, time.January, 31), 100000),
	}
	txs := []Transaction{
		{Date: NewDate(2024, time.January, 10), Type: Fee, Net: M(-1250), Description: "QUARTERLY ADVISOR FEE"},
		{Date: NewDate(2024, time.January, 12), Type: Fee, Net: M(-50), Description: "WIRE FEE"},
	}

	sb := NewSeriesBuilder(testLogger(), flatBenchmarks(t))
	points := sb.Build(txs, balances)

	if len(points[0].LargeFees) != 1 {
		t.Fatalf("LargeFees = %d entries, want 1 (only the >=1000 fee)", len(points[0].LargeFees))
	}
	lf := points[0].LargeFees[0]
	if lf.Amount != 1250 || lf.Description != "QUARTERLY ADVISOR FEE" {
		t.Errorf("LargeFees[0] = %+v", lf)
	}
}
