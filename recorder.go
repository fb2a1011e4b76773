package perfdash

// RunRecord summarizes one account's processing run for the audit trail.
type RunRecord struct {
	RunID              string
	Account            string
	StatementsAccepted int
	StatementsSkipped  int
	Transactions       int
	Points             int
	Err                string
}

// Recorder persists run history and skip events so a human can audit why a
// statement or row was excluded, after the logs are gone.
type Recorder interface {
	RecordRun(rec RunRecord) error
	RecordSkip(runID, account, file, reason string) error
	Close() error
}

// NoopRecorder discards everything. It is the default when no audit database
// is configured.
type NoopRecorder struct{}

func (NoopRecorder) RecordRun(RunRecord) error          { return nil }
func (NoopRecorder) RecordSkip(_, _, _, _ string) error { return nil }
func (NoopRecorder) Close() error                       { return nil }
