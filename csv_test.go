package perfdash

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const modernLedger = `"Transactions for account XXXX-1234 as of 09/01/2024"
"Date","Action","Symbol","Description","Quantity","Price","Fees & Comm","Amount"
"08/15/2024","Buy","VTI","VANGUARD TOTAL STOCK MARKET ETF","10","$250.00","$4.95","($2,504.95)"
"07/01/2024","MoneyLink Transfer","","TRANSFER FROM CHECKING","","","","$5,000.00"
"06/12/2024 as of 06/11/2024","Cash Dividend","VTI","VANGUARD TOTAL STOCK MARKET ETF","","","","$12.34"
"05/05/2024","Journal","","SOMETHING UNMODELED","","","","$1.00"
"Total","","","","","","","$2,507.39"
`

const legacyLedger = `Date,Action,Description,Quantity,Price,Fees,Amount
03/10/2023,Advisor Fee,QUARTERLY ADVISOR FEE,,,,-1250.00
02/01/2023,MoneyLink Transfer,DEPOSIT,,,,"$10,000.00"
`

func testLogger() zerolog.Logger { return zerolog.Nop() }

func TestReadLedgerModernVariant(t *testing.T) {
	txs, err := ReadLedger(strings.NewReader(modernLedger), "test.csv", testLogger())
	if err != nil {
		t.Fatalf("ReadLedger() error = %v", err)
	}
	// The Journal row and the Total row are dropped.
	if len(txs) != 3 {
		t.Fatalf("ReadLedger() returned %d transactions, want 3", len(txs))
	}
	// Ascending order.
	if txs[0].Type != Dividend || txs[0].Date != NewDate(2024, time.June, 12) {
		t.Errorf("txs[0] = %v %v, want DIVIDEND 2024-06-12", txs[0].Type, txs[0].Date)
	}
	if txs[1].Type != Deposit || !txs[1].Net.Equal(M(5000)) {
		t.Errorf("txs[1] = %v %v, want DEPOSIT 5000", txs[1].Type, txs[1].Net)
	}
	buy := txs[2]
	if buy.Type != Buy || buy.Symbol != "VTI" {
		t.Errorf("txs[2] = %v %v, want BUY VTI", buy.Type, buy.Symbol)
	}
	if !buy.Fees.Equal(M(4.95)) {
		t.Errorf("buy.Fees = %v, want 4.95", buy.Fees)
	}
	if !buy.Net.Equal(M(-2509.90)) {
		t.Errorf("buy.Net = %v, want -2509.90", buy.Net)
	}
}

func TestReadLedgerLegacyVariant(t *testing.T) {
	txs, err := ReadLedger(strings.NewReader(legacyLedger), "legacy.csv", testLogger())
	if err != nil {
		t.Fatalf("ReadLedger() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("ReadLedger() returned %d transactions, want 2", len(txs))
	}
	if txs[0].Type != Deposit {
		t.Errorf("txs[0].Type = %v, want DEPOSIT", txs[0].Type)
	}
	if txs[1].Type != Fee || !txs[1].Net.Equal(M(-1250)) {
		t.Errorf("txs[1] = %v %v, want FEE -1250", txs[1].Type, txs[1].Net)
	}
}

func TestReadLedgerNoHeader(t *testing.T) {
	_, err := ReadLedger(strings.NewReader("just,some,noise\n1,2,3\n"), "noise.csv", testLogger())
	if !errors.Is(err, ErrNoLedgerHeader) {
		t.Fatalf("ReadLedger() error = %v, want ErrNoLedgerHeader", err)
	}
}
