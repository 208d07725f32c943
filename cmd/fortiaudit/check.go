package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/internal/config"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/report"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// checkOptions holds the parsed flags of the check subcommand.
type checkOptions struct {
	configPath string
	dialect    string
	format     string
	outDir     string
	formats    string
	noHistory  bool
	quiet      bool
	path       string
}

func parseCheckFlags(args []string, stderr io.Writer) (*checkOptions, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &checkOptions{}
	fs.StringVar(&opts.configPath, "config", "", "config file (default fortiaudit.yaml)")
	fs.StringVar(&opts.dialect, "dialect", "", "switch or wireless")
	fs.StringVar(&opts.format, "format", "text", "stdout format")
	fs.StringVar(&opts.outDir, "out", "", "report directory")
	fs.StringVar(&opts.formats, "formats", "", "comma-separated report file formats, or none")
	fs.BoolVar(&opts.noHistory, "no-history", false, "do not record the run")
	fs.BoolVar(&opts.quiet, "quiet", false, "suppress log output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, fmt.Errorf("usage: fortiaudit check [flags] <config-file|->")
	}
	opts.path = fs.Arg(0)
	return opts, nil
}

// resolve merges flags over the config file.
func (o *checkOptions) resolve(cfg *config.Config) (fortiparse.Dialect, report.Format, []report.Format, error) {
	dialectName := cfg.Dialect
	if o.dialect != "" {
		dialectName = o.dialect
	}
	d, err := fortiparse.ParseDialect(dialectName)
	if err != nil {
		return "", "", nil, err
	}

	stdoutFormat, err := report.ParseFormat(o.format)
	if err != nil {
		return "", "", nil, err
	}

	names := cfg.Formats
	if o.formats != "" {
		names = strings.Split(o.formats, ",")
	}
	var fileFormats []report.Format
	for _, name := range names {
		if strings.TrimSpace(name) == "none" {
			return d, stdoutFormat, nil, nil
		}
		f, err := report.ParseFormat(name)
		if err != nil {
			return "", "", nil, err
		}
		fileFormats = append(fileFormats, f)
	}
	return d, stdoutFormat, fileFormats, nil
}

func newLogger(stderr io.Writer, quiet bool) *log.Logger {
	if quiet {
		stderr = io.Discard
	}
	return log.New(stderr, "[fortiaudit] ", log.LstdFlags)
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseCheckFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if opts.outDir != "" {
		cfg.OutputDir = opts.outDir
	}
	cfg.NoHistory = opts.noHistory
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: invalid config:\n%v\n", err)
		return exitError
	}

	d, stdoutFormat, fileFormats, err := opts.resolve(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger := newLogger(stderr, opts.quiet)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditor := audit.New(audit.Options{Logger: logger})
	var res *audit.Result
	if opts.path == "-" {
		res, err = auditor.Run(ctx, d, "stdin", stdin)
	} else {
		res, err = auditor.RunFile(ctx, d, opts.path)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	rep := res.Report

	if err := report.Write(stdout, stdoutFormat, rep); err != nil {
		fmt.Fprintf(stderr, "Error: render report: %v\n", err)
		return exitError
	}

	if len(fileFormats) > 0 {
		paths, err := report.WriteFiles(cfg.OutputDir, rep, fileFormats)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		for _, p := range paths {
			logger.Printf("wrote %s", p)
		}
	}

	if !cfg.NoHistory {
		if err := recordRun(ctx, cfg, rep, logger); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}

	if rep.Summary.Failed > 0 {
		return exitFailed
	}
	return exitOK
}

func recordRun(ctx context.Context, cfg *config.Config, rep *compliance.ComplianceReport, logger *log.Logger) error {
	store, err := history.Open(cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.SaveRun(ctx, rep)
	if err != nil {
		return err
	}
	logger.Printf("recorded run %s", run.ID)
	return nil
}

// openStore opens the history database named by the config at path.
func openStore(configPath string) (*history.SQLStore, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateDriver(cfg.History.Driver); err != nil {
		return nil, fmt.Errorf("history.driver: %w", err)
	}
	return history.Open(cfg.History.Driver, cfg.History.DSN)
}
