// Package perfdash reconciles brokerage statement exports into a canonical
// monthly time series of account value versus contributed principal, with
// benchmark-alternative trajectories.
//
// The pipeline reads two kinds of source documents: CSV transaction ledgers
// (classified into typed deposits, withdrawals, trades, dividends and fees)
// and periodic statement documents (whose ending balances are recovered from
// unstructured text by an ordered regex cascade). Both feed the time-series
// builder, which tracks running principal separately from account value and
// compounds configured benchmark returns over the same cash-flow timing.
// The result is a single JSON document per account consumed by a dashboard
// front end.
//
// Statement balances are ground truth: months without one get an explicitly
// flagged estimate, and anomalous extractions (transfer-closure statements,
// implausible one-month collapses) are excluded before they can distort the
// series.
package perfdash
