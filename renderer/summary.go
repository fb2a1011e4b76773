// Package renderer turns pipeline results into markdown reports for the terminal.
package renderer

import (
	"bytes"
	"fmt"

	"github.com/ckaplan/perfdash"
	md "github.com/nao1215/markdown"
)

func usd(v float64) string {
	return perfdash.M(v).String()
}

// SummaryMarkdown renders an account's performance summary to a markdown string.
func SummaryMarkdown(r *perfdash.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Performance Summary: %s", r.AccountName))

	s := r.Summary
	if len(r.Points) == 0 {
		doc.PlainText("No statements found; no time series was generated.")
		doc.Build()
		return buf.String()
	}

	first := r.Points[0]
	last := r.Points[len(r.Points)-1]
	doc.PlainText(fmt.Sprintf("%s through %s, %d monthly points.",
		first.Date.String(), last.Date.String(), len(r.Points)))
	doc.LF()

	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Current Value"), md.Bold(usd(s.CurrentValue))},
		Rows: [][]string{
			{"Principal Invested", usd(s.Principal)},
			{"Real Return", usd(s.RealReturn)},
			{"Annualized Return", s.AnnualizedReturn.String()},
		},
	})

	if len(s.Benchmarks) > 0 {
		doc.H2("Benchmark Alternatives")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
			Header:    []string{"Benchmark", "Final Value", "Gains", "Outperformance"},
		}
		for _, b := range s.Benchmarks {
			table.Rows = append(table.Rows, []string{
				b.DisplayName,
				usd(b.FinalValue),
				usd(b.Gains),
				usd(b.Outperformance),
			})
		}
		doc.Table(table)
	}

	if fees := collectLargeFees(r.Points); len(fees) > 0 {
		doc.H2("Large Fees")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft},
			Header:    []string{"Date", "Amount", "Description"},
		}
		for _, f := range fees {
			table.Rows = append(table.Rows, []string{f.Date.String(), usd(f.Amount), f.Description})
		}
		doc.Table(table)
	}

	doc.Build()
	return buf.String()
}

func collectLargeFees(points []perfdash.Point) []perfdash.LargeFee {
	var out []perfdash.LargeFee
	for _, p := range points {
		out = append(out, p.LargeFees...)
	}
	return out
}

// BenchmarksMarkdown renders the configured benchmark registry and the
// coverage of each returns table.
func BenchmarksMarkdown(benchmarks *perfdash.Benchmarks) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Configured Benchmarks")
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"ID", "Name", "First Month", "Last Month", "Months"},
	}
	for b := range benchmarks.All() {
		first, last, count := b.Coverage()
		firstStr, lastStr := "-", "-"
		if count > 0 {
			firstStr, lastStr = first.String(), last.String()
		}
		table.Rows = append(table.Rows, []string{
			b.ID, b.DisplayName, firstStr, lastStr, fmt.Sprintf("%d", count),
		})
	}
	doc.Table(table)
	doc.Build()
	return buf.String()
}
