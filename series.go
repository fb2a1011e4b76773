package perfdash

import (
	"github.com/rs/zerolog"
)

// LargeFee annotates a notable fee within a month, for user-facing call-outs
// only; it never feeds a calculation.
type LargeFee struct {
	Amount      float64
	Date        Date
	Description string
}

// Point is one month of the canonical time series.
type Point struct {
	Date         Date    // month end
	AccountValue float64 // statement-backed, or estimated when Estimated is true
	Estimated    bool

	// Principal is cumulative net contributions as of this month. It moves
	// only with deposit/withdrawal deltas, never with market value.
	Principal   Money
	Deposits    Money // this month's deposits
	Withdrawals Money // this month's withdrawals
	Fees        Money // this month's fees

	BenchmarkValues map[string]float64
	LargeFees       []LargeFee
}

// MarshalJSON emits the point in the fixed field order of the output contract.
func (p Point) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", p.Date)
	w.Append("accountValue", round2(p.AccountValue))
	w.Append("estimated", p.Estimated)
	w.Append("principalInvested", p.Principal)
	w.Append("deposits", p.Deposits)
	w.Append("withdrawals", p.Withdrawals)
	w.Append("fees", p.Fees)
	w.Append("benchmarkValues", roundMap(p.BenchmarkValues))
	if p.LargeFees == nil {
		w.Append("largeFees", []largeFeeJSON{})
	} else {
		fees := make([]largeFeeJSON, 0, len(p.LargeFees))
		for _, f := range p.LargeFees {
			fees = append(fees, largeFeeJSON{Amount: round2(f.Amount), Date: f.Date, Description: f.Description})
		}
		w.Append("largeFees", fees)
	}
	return w.MarshalJSON()
}

type largeFeeJSON struct {
	Amount      float64 `json:"amount"`
	Date        Date    `json:"date"`
	Description string  `json:"description"`
}

func round2(v float64) float64 {
	return M(v).Round2()
}

func roundMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v)
	}
	return out
}

// SeriesBuilder merges the classified ledger with extracted statement
// balances into one monthly sequence, tracking running principal separately
// from account value and carrying the benchmark-alternative trajectories.
type SeriesBuilder struct {
	Log        zerolog.Logger
	Benchmarks *Benchmarks

	// OpeningBalance, when positive, overrides the first statement balance
	// as the initial principal. It is the escape hatch for accounts whose
	// earliest statement predates digitized transaction history.
	OpeningBalance float64

	// LargeFeeFloor is the annotation threshold for fee call-outs.
	LargeFeeFloor float64
}

// NewSeriesBuilder returns a builder with the default large-fee threshold.
func NewSeriesBuilder(log zerolog.Logger, benchmarks *Benchmarks) *SeriesBuilder {
	return &SeriesBuilder{Log: log, Benchmarks: benchmarks, LargeFeeFloor: 1000}
}

// Build generates one point per calendar month from the month of the first
// statement to the month of the last statement. With zero statements the
// series is empty: there is nothing to anchor an estimate to, and downstream
// metrics must report zeros rather than fabricate data.
//
// The monthly iteration is inherently sequential: each month depends on the
// previous month's running principal and benchmark values.
func (sb *SeriesBuilder) Build(txs []Transaction, balances map[Month]StatementBalance) []Point {
	if len(balances) == 0 {
		return nil
	}
	SortAscending(txs)

	var first, last Month
	n := 0
	for mo := range balances {
		if n == 0 || mo.Before(first) {
			first = mo
		}
		if n == 0 || mo.After(last) {
			last = mo
		}
		n++
	}

	var points []Point
	var principal Money
	var prevDeposits, prevWithdrawals Money // cumulative totals as of the previous month
	benchValues := make(map[string]float64)

	// Return rate of the last statement-backed point, used to project value
	// for months with no statement.
	var lastActualValue float64
	var lastActualPrincipal Money

	for mo := range Months(first, last) {
		monthEnd := mo.End()

		// Cumulative totals up to this month's end. Deltas are derived from
		// the previous month's cumulative figures, never by re-summing a
		// month's rows, so history is never double counted.
		cumDeposits, cumWithdrawals := cumulativeFlows(txs, monthEnd)
		depositsDelta := cumDeposits.Sub(prevDeposits)
		withdrawalsDelta := cumWithdrawals.Sub(prevWithdrawals)

		bal, hasStatement := balances[mo]

		if len(points) == 0 {
			// The first statement already embeds pre-history contributions
			// that the ledger does not cover, so the first month's principal
			// is the statement balance itself (or an explicit override).
			if sb.OpeningBalance > 0 {
				principal = M(sb.OpeningBalance)
			} else {
				principal = M(bal.AccountValue)
			}
		} else {
			principal = principal.Add(depositsDelta).Sub(withdrawalsDelta)
		}

		point := Point{
			Date:            monthEnd,
			Principal:       principal,
			Deposits:        depositsDelta,
			Withdrawals:     withdrawalsDelta,
			Fees:            monthFees(txs, mo),
			BenchmarkValues: make(map[string]float64, sb.Benchmarks.Len()),
			LargeFees:       sb.largeFees(txs, mo),
		}

		switch {
		case hasStatement:
			point.AccountValue = bal.AccountValue
			lastActualValue = bal.AccountValue
			lastActualPrincipal = principal
		default:
			// No statement this month: project from the last statement-backed
			// return rate. The point is explicitly flagged as estimated so it
			// is never mistaken for ground truth.
			rate := 0.0
			if lastActualPrincipal.IsPositive() {
				rate = lastActualValue/lastActualPrincipal.Float() - 1
			}
			point.AccountValue = principal.Float() * (1 + rate)
			point.Estimated = true
			sb.Log.Debug().Str("month", mo.String()).Float64("estimate", point.AccountValue).
				Msg("no statement for month, using estimated value")
		}

		principalDelta := depositsDelta.Sub(withdrawalsDelta)
		for b := range sb.Benchmarks.All() {
			if len(points) == 0 {
				benchValues[b.ID] = principal.Float()
			} else {
				v := benchValues[b.ID] * (1 + b.MonthlyReturn(mo))
				benchValues[b.ID] = v + principalDelta.Float()
			}
			point.BenchmarkValues[b.ID] = benchValues[b.ID]
		}

		points = append(points, point)
		prevDeposits, prevWithdrawals = cumDeposits, cumWithdrawals
	}

	return points
}

// cumulativeFlows sums deposits and withdrawals over every transaction dated
// on or before cutoff. The ledger is ascending, so the scan stops at the
// first later transaction.
func cumulativeFlows(txs []Transaction, cutoff Date) (deposits, withdrawals Money) {
	for _, tx := range txs {
		if tx.Date.After(cutoff) {
			break
		}
		switch tx.Type {
		case Deposit:
			deposits = deposits.Add(tx.Net)
		case Withdrawal:
			withdrawals = withdrawals.Add(tx.Net.Abs())
		}
	}
	return deposits, withdrawals
}

// monthFees sums commissions across the month's rows plus the amounts of
// explicit fee transactions.
func monthFees(txs []Transaction, mo Month) Money {
	var fees Money
	for _, tx := range txs {
		if tx.Date.Month() != mo {
			continue
		}
		fees = fees.Add(tx.Fees)
		if tx.Type == Fee {
			fees = fees.Add(tx.Net.Abs())
		}
	}
	return fees
}

func (sb *SeriesBuilder) largeFees(txs []Transaction, mo Month) []LargeFee {
	var out []LargeFee
	floor := M(sb.LargeFeeFloor)
	for _, tx := range txs {
		if tx.Type != Fee || tx.Date.Month() != mo {
			continue
		}
		if amount := tx.Net.Abs(); amount.GreaterThanOrEqual(floor) {
			out = append(out, LargeFee{
				Amount:      amount.Float(),
				Date:        tx.Date,
				Description: tx.Description,
			})
		}
	}
	return out
}
