package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ckaplan/perfdash"
	"github.com/ckaplan/perfdash/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	account string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display an account performance summary" }
func (*summaryCmd) Usage() string {
	return `pfd summary -a <account>

  Runs the reconciliation for one account and renders its performance
  summary (value, principal, real return, benchmark outperformance) to the
  terminal. Nothing is written to disk.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to summarize. Defaults to the only account if one is configured.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.account == "" && len(cfg.Accounts) == 1 {
		c.account = cfg.Accounts[0].Name
	}
	accounts, err := selectAccounts(cfg, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	benchmarks, err := cfg.BuildBenchmarks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading benchmarks: %v\n", err)
		return subcommands.ExitFailure
	}

	pipeline := perfdash.NewPipeline(cfg, benchmarks, perfdash.NoopRecorder{}, log)
	for _, acct := range accounts {
		report, err := pipeline.BuildReport(acct)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing account %q: %v\n", acct.Name, err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.SummaryMarkdown(&report))
	}
	return subcommands.ExitSuccess
}
