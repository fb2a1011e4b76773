package perfdash

import (
	"fmt"
	"sort"
)

// Benchmark is one reference index or model portfolio, with its table of
// historical monthly returns. Benchmarks are immutable reference data,
// resolved once at startup and iterated generically; no code branches on a
// benchmark's identity.
type Benchmark struct {
	ID          string
	DisplayName string
	Color       string
	Returns     map[Month]float64 // monthly return as a fraction (0.0159 == +1.59%)
}

// MonthlyReturn returns the benchmark's return for a month. Months missing
// from the table are flat: 0%, never an error.
func (b *Benchmark) MonthlyReturn(mo Month) float64 {
	return b.Returns[mo]
}

// Compound applies the benchmark's monthly returns to principal from
// startMonth to endMonth inclusive and returns the final value.
func (b *Benchmark) Compound(start, end Month, principal float64) float64 {
	value := principal
	for mo := range Months(start, end) {
		value *= 1 + b.MonthlyReturn(mo)
	}
	return value
}

// BenchmarkPerformance is the result of compounding a principal through a
// benchmark's return history.
type BenchmarkPerformance struct {
	FinalValue         float64
	TotalReturnPercent Percent
}

// Performance compounds principal through [start, end] and reports the final
// value with the total return. A non-positive principal yields zeros rather
// than a division artifact.
func (b *Benchmark) Performance(start, end Month, principal float64) BenchmarkPerformance {
	final := b.Compound(start, end, principal)
	var ret Percent
	if principal > 0 {
		ret = Percent((final/principal - 1) * 100)
	}
	return BenchmarkPerformance{FinalValue: final, TotalReturnPercent: ret}
}

// Coverage reports the span of the return table: first month, last month and
// the number of months present.
func (b *Benchmark) Coverage() (first, last Month, count int) {
	for mo := range b.Returns {
		if count == 0 || mo.Before(first) {
			first = mo
		}
		if count == 0 || mo.After(last) {
			last = mo
		}
		count++
	}
	return first, last, count
}

// Benchmarks is the registry of configured benchmarks, keyed by ID and
// iterated in a stable order.
type Benchmarks struct {
	byID  map[string]*Benchmark
	order []string
}

// NewBenchmarks builds a registry from definitions. Duplicate IDs are an error.
func NewBenchmarks(defs ...Benchmark) (*Benchmarks, error) {
	r := &Benchmarks{byID: make(map[string]*Benchmark)}
	for i := range defs {
		b := defs[i]
		if b.ID == "" {
			return nil, fmt.Errorf("benchmark %q has no id", b.DisplayName)
		}
		if _, dup := r.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate benchmark id %q", b.ID)
		}
		r.byID[b.ID] = &b
		r.order = append(r.order, b.ID)
	}
	sort.Strings(r.order)
	return r, nil
}

// Get returns the benchmark with this id, or nil if unknown.
func (r *Benchmarks) Get(id string) *Benchmark {
	if r == nil {
		return nil
	}
	return r.byID[id]
}

// All iterates benchmarks in stable ID order.
func (r *Benchmarks) All() func(yield func(*Benchmark) bool) {
	return func(yield func(*Benchmark) bool) {
		if r == nil {
			return
		}
		for _, id := range r.order {
			if !yield(r.byID[id]) {
				return
			}
		}
	}
}

// Len returns the number of registered benchmarks.
func (r *Benchmarks) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
