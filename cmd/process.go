package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ckaplan/perfdash"
	"github.com/google/subcommands"
)

type processCmd struct {
	account string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "reconcile statements and write the output JSON" }
func (*processCmd) Usage() string {
	return `pfd process [-a <account>]

  Reads each configured account's transaction CSV and statement documents,
  builds the monthly time series with benchmark alternatives, and writes one
  JSON document per account. Failing accounts are reported; the rest of the
  batch still completes.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Process only this account. Defaults to all configured accounts.")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	log := Logger()
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
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

	rec := OpenRecorder(cfg, log)
	defer rec.Close()

	pipeline := perfdash.NewPipeline(cfg, benchmarks, rec, log)
	if err := pipeline.Run(accounts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func selectAccounts(cfg *perfdash.Config, name string) ([]perfdash.AccountConfig, error) {
	if name == "" {
		return cfg.Accounts, nil
	}
	for _, a := range cfg.Accounts {
		if a.Name == name {
			return []perfdash.AccountConfig{a}, nil
		}
	}
	return nil, fmt.Errorf("account %q is not configured", name)
}
