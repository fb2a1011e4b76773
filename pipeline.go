package perfdash

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNoStatements is the structural failure of an account with zero usable
// statements: without a single balance nothing anchors the time series.
var ErrNoStatements = errors.New("no usable statements")

// Pipeline runs the whole reconciliation for a batch of accounts: ledger
// classification, statement extraction, time-series construction, metrics
// and the output artifact. It is a batch, run-to-completion process; only
// per-file statement extraction is parallelized.
type Pipeline struct {
	Log        zerolog.Logger
	Benchmarks *Benchmarks
	Recorder   Recorder
	Cache      *ExtractCache
	OutputDir  string

	LargeFeeFloor float64
	AnomalyFloor  float64
	AnomalyDrop   float64

	now func() time.Time // injected for deterministic tests
}

// NewPipeline builds a pipeline from configuration. The caller owns the
// recorder's lifetime.
func NewPipeline(cfg *Config, benchmarks *Benchmarks, rec Recorder, log zerolog.Logger) *Pipeline {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &Pipeline{
		Log:           log,
		Benchmarks:    benchmarks,
		Recorder:      rec,
		Cache:         NewExtractCache(30 * time.Minute),
		OutputDir:     cfg.OutputDir,
		LargeFeeFloor: cfg.Thresholds.LargeFee,
		AnomalyFloor:  cfg.Thresholds.AnomalyFloor,
		AnomalyDrop:   cfg.Thresholds.AnomalyDrop,
		now:           time.Now,
	}
}

// Run processes every account in the batch. A failing account aborts that
// account only; the error reports which accounts could not be produced.
func (p *Pipeline) Run(accounts []AccountConfig) error {
	var errs error
	for _, acct := range accounts {
		if err := p.RunAccount(acct); err != nil {
			p.Log.Error().Str("account", acct.Name).Err(err).Msg("account failed")
			errs = errors.Join(errs, fmt.Errorf("account %q: %w", acct.Name, err))
		}
	}
	return errs
}

// RunAccount processes a single account end to end and writes its report.
func (p *Pipeline) RunAccount(acct AccountConfig) error {
	runID := uuid.NewString()
	log := p.Log.With().Str("run_id", runID).Str("account", acct.Name).Logger()
	log.Info().Str("ledger", acct.Ledger).Str("statements", acct.Statements).Msg("processing account")

	report, skips, err := p.buildReport(acct, log)

	rec := RunRecord{
		RunID:             runID,
		Account:           acct.Name,
		StatementsSkipped: len(skips),
	}
	for _, s := range skips {
		if rerr := p.Recorder.RecordSkip(runID, acct.Name, s.File, s.Reason); rerr != nil {
			log.Warn().Err(rerr).Msg("could not record skip event")
		}
	}
	if err != nil {
		rec.Err = err.Error()
	} else {
		rec.StatementsAccepted = statementCount(report.Points)
		rec.Transactions = len(report.Transactions)
		rec.Points = len(report.Points)
	}
	if rerr := p.Recorder.RecordRun(rec); rerr != nil {
		log.Warn().Err(rerr).Msg("could not record run")
	}
	if err != nil {
		return err
	}

	out := filepath.Join(p.OutputDir, acct.Name+".json")
	if err := report.WriteFile(out); err != nil {
		return err
	}
	log.Info().Str("output", out).Int("points", len(report.Points)).Msg("account processed")
	return nil
}

// BuildReport produces the report document for one account without writing
// it; the summary subcommand uses it directly.
func (p *Pipeline) BuildReport(acct AccountConfig) (Report, error) {
	report, _, err := p.buildReport(acct, p.Log.With().Str("account", acct.Name).Logger())
	return report, err
}

func (p *Pipeline) buildReport(acct AccountConfig, log zerolog.Logger) (Report, []Skip, error) {
	// A ledger that cannot be read is fatal for the account: no time series
	// can be built without it.
	txs, err := ReadLedgerFile(acct.Ledger, log)
	if err != nil {
		return Report{}, nil, err
	}

	extractor := NewExtractor(log)
	extractor.Cache = p.Cache
	if p.AnomalyDrop > 0 {
		extractor.AnomalyDrop = p.AnomalyDrop
	}
	if p.AnomalyFloor > 0 {
		extractor.AnomalyFloor = p.AnomalyFloor
	}
	balances, skips, err := extractor.ExtractDir(acct.Statements)
	if err != nil {
		return Report{}, skips, err
	}
	if len(balances) == 0 {
		return Report{}, skips, ErrNoStatements
	}

	builder := NewSeriesBuilder(log, p.Benchmarks)
	builder.OpeningBalance = acct.OpeningBalance
	if p.LargeFeeFloor > 0 {
		builder.LargeFeeFloor = p.LargeFeeFloor
	}
	points := builder.Build(txs, balances)

	exported := make([]Transaction, len(txs))
	copy(exported, txs)
	SortDescending(exported)

	return Report{
		AccountName:    acct.Name,
		OpeningBalance: acct.OpeningBalance,
		Points:         points,
		Transactions:   exported,
		Summary:        Summarize(points, p.Benchmarks),
		LastUpdated:    p.now(),
	}, skips, nil
}
