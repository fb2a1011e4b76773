package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ckaplan/perfdash/renderer"
	"github.com/google/subcommands"
)

type benchmarksCmd struct{}

func (*benchmarksCmd) Name() string     { return "benchmarks" }
func (*benchmarksCmd) Synopsis() string { return "list configured benchmarks and their coverage" }
func (*benchmarksCmd) Usage() string {
	return `pfd benchmarks

  Lists every configured benchmark with the span of its monthly returns
  table. Months missing from a table compound as 0%.
`
}

func (*benchmarksCmd) SetFlags(*flag.FlagSet) {}

func (*benchmarksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	benchmarks, err := cfg.BuildBenchmarks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading benchmarks: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.BenchmarksMarkdown(benchmarks))
	return subcommands.ExitSuccess
}
