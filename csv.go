package perfdash

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNoLedgerHeader is returned when no recognizable header row is found in
// a ledger CSV. Unlike a malformed data row, this is fatal for the account:
// without a ledger no time series can be built.
var ErrNoLedgerHeader = errors.New("no recognizable ledger header")

// ledgerColumns maps the columns of interest to their index in a ledger CSV.
// A value of -1 means the export variant does not carry that column.
type ledgerColumns struct {
	date, action, symbol, description, quantity, price, fees, amount int
}

// detectColumns matches a header row against the two known brokerage export
// variants. The modern export labels the commission column "Fees & Comm";
// the legacy one plain "Fees" and omits the symbol column.
func detectColumns(header []string) (ledgerColumns, bool) {
	cols := ledgerColumns{date: -1, action: -1, symbol: -1, description: -1, quantity: -1, price: -1, fees: -1, amount: -1}
	for i, h := range header {
		switch key := strings.ToLower(strings.TrimSpace(h)); {
		case key == "date":
			cols.date = i
		case key == "action":
			cols.action = i
		case key == "symbol":
			cols.symbol = i
		case strings.Contains(key, "description"):
			cols.description = i
		case strings.Contains(key, "quantity"):
			cols.quantity = i
		case key == "price":
			cols.price = i
		case strings.Contains(key, "fee"):
			cols.fees = i
		case key == "amount":
			cols.amount = i
		}
	}
	// Date, action and amount are the minimum needed to classify anything.
	ok := cols.date >= 0 && cols.action >= 0 && cols.amount >= 0
	return cols, ok
}

// ReadLedger reads a brokerage transaction CSV and returns the classified
// transactions in ascending date order. Malformed or unclassifiable rows are
// logged and skipped; only a missing or headerless file is an error.
func ReadLedger(r io.Reader, source string, log zerolog.Logger) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports carry banner and total rows of varying width

	var cols ledgerColumns
	var haveHeader bool
	var txs []Transaction

	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn().Str("file", source).Int("line", line).Str("reason", err.Error()).
				Msg("skipping unreadable csv row")
			continue
		}

		if !haveHeader {
			if cols, haveHeader = detectColumns(record); !haveHeader {
				// Banner line before the header ("Transactions for account ... as of ...").
				continue
			}
			continue
		}

		raw, ok := rawFromRecord(record, cols)
		if !ok {
			log.Debug().Str("file", source).Int("line", line).Str("reason", "no parsable date").
				Msg("skipping non-data row")
			continue
		}

		tx, ok := Classify(raw)
		if !ok {
			log.Debug().Str("file", source).Int("line", line).Str("reason", "unrecognized action").
				Str("action", raw.Action).Msg("dropping unclassified row")
			continue
		}
		txs = append(txs, tx)
	}

	if !haveHeader {
		return nil, fmt.Errorf("%s: %w", source, ErrNoLedgerHeader)
	}

	SortAscending(txs)
	return txs, nil
}

// ReadLedgerFile reads and classifies a ledger CSV from disk. A file that
// cannot be opened is fatal to the account's run.
func ReadLedgerFile(path string, log zerolog.Logger) ([]Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	defer f.Close()
	return ReadLedger(f, path, log)
}

func rawFromRecord(record []string, cols ledgerColumns) (RawTransaction, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	// Dates come as "MM/DD/YYYY" or "MM/DD/YYYY as of MM/DD/YYYY".
	date, err := ParseStatementDate(field(cols.date))
	if err != nil {
		return RawTransaction{}, false
	}

	var quantity decimal.Decimal
	if q := field(cols.quantity); q != "" && q != "--" {
		if d, err := decimal.NewFromString(strings.ReplaceAll(q, ",", "")); err == nil {
			quantity = d
		}
	}

	return RawTransaction{
		Date:        date,
		Action:      field(cols.action),
		Symbol:      field(cols.symbol),
		Description: field(cols.description),
		Quantity:    quantity,
		Price:       ParseCurrencyExact(field(cols.price)),
		Fees:        ParseCurrencyExact(field(cols.fees)),
		Amount:      ParseCurrencyExact(field(cols.amount)),
	}, true
}
