package perfdash

import (
	"math"
)

// minYears is the span below which annualizing a return is meaningless
// noise; shorter spans report 0.
const minYears = 0.1

// AnnualizedReturn converts a total gain over a time span into a yearly
// rate, as a percentage. Every degenerate input (non-positive principal,
// too-short span, non-finite result) clamps to 0: a NaN leaking into the
// output JSON breaks every downstream consumer.
func AnnualizedReturn(finalValue, initialPrincipal, years float64) Percent {
	if initialPrincipal <= 0 || years < minYears {
		return 0
	}
	ratio := finalValue / initialPrincipal
	if ratio <= 0 {
		return 0
	}
	r := math.Pow(ratio, 1/years) - 1
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return Percent(r * 100)
}

// BenchmarkSummary compares the account against one benchmark trajectory
// over the same cash-flow timing.
type BenchmarkSummary struct {
	ID                 string
	DisplayName        string
	FinalValue         float64
	Gains              float64 // benchmark value minus principal
	Outperformance     float64 // real return minus benchmark gains
	TotalReturnPercent Percent
}

// Summary is the aggregate view of a finished time series.
type Summary struct {
	CurrentValue     float64
	Principal        float64
	RealReturn       float64 // current value minus principal
	Years            float64
	AnnualizedReturn Percent
	Benchmarks       []BenchmarkSummary
}

// Summarize derives the headline metrics from a finished time series. An
// empty series reports zeros; nothing is fabricated.
//
// Every comparison uses the same principal figure: a benchmark's gains are
// measured against the account's principal, never against the benchmark's
// own compounding basis.
func Summarize(points []Point, benchmarks *Benchmarks) Summary {
	if len(points) == 0 {
		return Summary{}
	}
	first, final := points[0], points[len(points)-1]

	principal := final.Principal.Float()
	years := float64(len(points)-1) / 12
	s := Summary{
		CurrentValue:     final.AccountValue,
		Principal:        principal,
		RealReturn:       final.AccountValue - principal,
		Years:            years,
		AnnualizedReturn: AnnualizedReturn(final.AccountValue, first.Principal.Float(), years),
	}

	for b := range benchmarks.All() {
		bv := final.BenchmarkValues[b.ID]
		gains := bv - principal
		s.Benchmarks = append(s.Benchmarks, BenchmarkSummary{
			ID:                 b.ID,
			DisplayName:        b.DisplayName,
			FinalValue:         bv,
			Gains:              gains,
			Outperformance:     s.RealReturn - gains,
			TotalReturnPercent: totalReturnPercent(bv, first.Principal.Float()),
		})
	}
	return s
}

func totalReturnPercent(finalValue, principal float64) Percent {
	if principal <= 0 {
		return 0
	}
	r := (finalValue/principal - 1) * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return Percent(r)
}

// MarshalJSON emits the summary in the fixed field order of the output contract.
func (s Summary) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currentValue", round2(s.CurrentValue))
	w.Append("principalInvested", round2(s.Principal))
	w.Append("realReturn", round2(s.RealReturn))
	w.Append("years", s.Years)
	w.Append("annualizedReturnPercent", round2(float64(s.AnnualizedReturn)))
	benches := make([]any, 0, len(s.Benchmarks))
	for _, b := range s.Benchmarks {
		var bw jsonObjectWriter
		bw.Append("id", b.ID)
		bw.Append("displayName", b.DisplayName)
		bw.Append("finalValue", round2(b.FinalValue))
		bw.Append("gains", round2(b.Gains))
		bw.Append("outperformance", round2(b.Outperformance))
		bw.Append("totalReturnPercent", round2(float64(b.TotalReturnPercent)))
		benches = append(benches, &bw)
	}
	w.Append("benchmarks", benches)
	return w.MarshalJSON()
}
