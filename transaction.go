package perfdash

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TxType identifies the kind of a classified ledger transaction.
type TxType string

const (
	Buy        TxType = "BUY"
	Sell       TxType = "SELL"
	Dividend   TxType = "DIVIDEND"
	Deposit    TxType = "DEPOSIT"
	Withdrawal TxType = "WITHDRAWAL"
	Fee        TxType = "FEE"
)

// RawTransaction is one ledger row as read from a brokerage CSV export,
// before classification. It is ephemeral: produced by the CSV reader and
// consumed immediately by Classify.
type RawTransaction struct {
	Date        Date
	Action      string
	Symbol      string
	Description string
	Quantity    decimal.Decimal
	Price       Money
	Fees        Money
	Amount      Money // gross amount
}

// Transaction is a classified ledger entry. Rows that match none of the
// classification rules are dropped, never retained as "unknown".
type Transaction struct {
	Date        Date
	Type        TxType
	Symbol      string
	Description string
	Quantity    decimal.Decimal
	Price       Money
	Fees        Money
	Net         Money // gross amount minus fees
}

// MarshalJSON emits the transaction in the shape the dashboard consumer expects.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", t.Date)
	w.Append("type", t.Type)
	w.Optional("symbol", t.Symbol)
	w.Optional("description", t.Description)
	if !t.Quantity.IsZero() {
		w.Append("quantity", t.Quantity.InexactFloat64())
	}
	if !t.Price.IsZero() {
		w.Append("price", t.Price)
	}
	w.Append("fees", t.Fees)
	w.Append("netAmount", t.Net)
	return w.MarshalJSON()
}

// Classify maps a raw ledger row to a typed transaction. Rules are evaluated
// in order, first match wins. The second return is false for rows that match
// no rule; those rows are dropped by the caller.
func Classify(raw RawTransaction) (Transaction, bool) {
	action := strings.ToLower(raw.Action)

	var typ TxType
	switch {
	case strings.Contains(action, "dividend") || strings.Contains(action, "interest"):
		typ = Dividend
	case strings.Contains(action, "moneylink") || strings.Contains(action, "transfer"):
		if raw.Amount.IsPositive() {
			typ = Deposit
		} else {
			typ = Withdrawal
		}
	case strings.Contains(action, "buy"):
		typ = Buy
	case strings.Contains(action, "sell"):
		typ = Sell
	case strings.Contains(action, "advisor fee") || strings.Contains(action, "mgmtfee"):
		typ = Fee
	default:
		return Transaction{}, false
	}

	return Transaction{
		Date:        raw.Date,
		Type:        typ,
		Symbol:      raw.Symbol,
		Description: raw.Description,
		Quantity:    raw.Quantity,
		Price:       raw.Price,
		Fees:        raw.Fees,
		Net:         raw.Amount.Sub(raw.Fees),
	}, true
}

// SortAscending orders transactions chronologically, the order the
// time-series builder requires. The sort is stable so same-day rows keep
// their ledger order.
func SortAscending(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}

// SortDescending orders transactions newest first, the order used for the
// exported transaction list and row-by-row debugging.
func SortDescending(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[j].Date.Before(txs[i].Date)
	})
}
