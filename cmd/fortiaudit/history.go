package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/report"
	"github.com/fortiaudit/fortiaudit/internal/rules"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

func runHistory(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default fortiaudit.yaml)")
	dialect := fs.String("dialect", "", "only runs of this dialect")
	source := fs.String("source", "", "only runs of this source")
	limit := fs.Int("limit", 20, "maximum number of runs (0 = all)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	filter := history.RunFilter{Source: *source, Limit: *limit}
	if *dialect != "" {
		d, err := fortiparse.ParseDialect(*dialect)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		filter.Dialect = string(d)
	}

	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "No runs recorded.")
		return exitOK
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tDIALECT\tSOURCE\tCHECKS\tCOMPLIANCE")
	for _, r := range runs {
		summary := report.RatioString(summaryOf(r))
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			r.ID, humanize.Time(r.CreatedAt), r.Dialect, r.Source, r.Passed, r.Total, summary)
	}
	w.Flush()
	return exitOK
}

func runShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default fortiaudit.yaml)")
	format := fs.String("format", "text", "output format")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: fortiaudit show [-format f] <run-id>")
		return exitError
	}
	f, err := report.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer store.Close()

	run, err := store.GetRun(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if err := report.Write(stdout, f, run.Report); err != nil {
		fmt.Fprintf(stderr, "Error: render report: %v\n", err)
		return exitError
	}
	return exitOK
}

func runDiff(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default fortiaudit.yaml)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, "usage: fortiaudit diff <run-id> <run-id>")
		return exitError
	}

	store, err := openStore(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer store.Close()

	ctx := context.Background()
	var runs [2]*history.Run
	for i, id := range fs.Args() {
		if runs[i], err = store.GetRun(ctx, id); err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", id, err)
			return exitError
		}
	}

	out, err := report.Diff(runs[0].Report, runs[1].Report, runLabel(runs[0]), runLabel(runs[1]))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if out == "" {
		fmt.Fprintln(stdout, "No differences.")
		return exitOK
	}
	fmt.Fprint(stdout, out)
	return exitOK
}

func runChecks(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("checks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dialect := fs.String("dialect", "", "switch or wireless (default: both)")
	if err := fs.Parse(args); err != nil {
		return exitError
	}

	dialects := fortiparse.Dialects()
	if *dialect != "" {
		d, err := fortiparse.ParseDialect(*dialect)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		dialects = []fortiparse.Dialect{d}
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSECTION\tSEVERITY")
	for _, d := range dialects {
		reg, err := rules.RegistryFor(d)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		for _, r := range reg.Rules() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Kind, r.Severity)
		}
	}
	w.Flush()
	return exitOK
}

func summaryOf(r history.Run) compliance.Summary {
	return compliance.Summary{
		Total:      r.Total,
		Passed:     r.Passed,
		Failed:     r.Failed,
		Ratio:      r.Ratio,
		RatioValid: r.Total > 0,
	}
}

func runLabel(r *history.Run) string {
	return fmt.Sprintf("%s (%s, %s)", r.ID, r.Source, r.CreatedAt.Format("2006-01-02 15:04"))
}
