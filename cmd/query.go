package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/ckaplan/perfdash"
	"github.com/google/subcommands"
)

type queryCmd struct {
	file string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "evaluate a jsonpath expression against an output document" }
func (*queryCmd) Usage() string {
	return `pfd query -f <report.json> <jsonpath>

  Evaluates a jsonpath expression against a previously written output
  document. Useful for spot-checking the contract the dashboard consumes.

Usage Examples:
$ pfd query -f out/brokerage.json '$.summary.realReturn'
$ pfd query -f out/brokerage.json '$.performance.timeSeriesData[-1:].accountValue'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Report file to query")
}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: pfd query -f <report.json> <jsonpath>")
		return subcommands.ExitUsageError
	}

	doc, err := perfdash.LoadReport(c.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := jsonpath.Get(f.Arg(0), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
