// Command fortiaudit audits FortiSwitch and FortiAP/Wi-Fi configuration
// exports against a fixed set of hardening checks.
//
// Subcommands:
//
//	check    audit a configuration file and write reports
//	history  list stored audit runs
//	show     print a stored run
//	diff     compare the outcomes of two stored runs
//	checks   list the check catalog for a dialect
//	version  print build information
//
// Usage:
//
//	fortiaudit check [-dialect switch|wireless] [-format text] [-out dir] <config-file>
//	fortiaudit history [-dialect d] [-source s] [-limit n]
//	fortiaudit show [-format text] <run-id>
//	fortiaudit diff <run-id> <run-id>
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fortiaudit/fortiaudit/pkg/buildinfo"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // at least one check failed
	exitError  = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return exitError
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:], stdin, stdout, stderr)
	case "history":
		return runHistory(args[1:], stdout, stderr)
	case "show":
		return runShow(args[1:], stdout, stderr)
	case "diff":
		return runDiff(args[1:], stdout, stderr)
	case "checks":
		return runChecks(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, buildinfo.String())
		return exitOK
	case "help", "--help", "-h":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printUsage(stderr)
		return exitError
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "fortiaudit: Fortinet configuration compliance checker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  fortiaudit check [flags] <config-file|->   Audit a configuration export")
	fmt.Fprintln(w, "  fortiaudit history [flags]                List stored audit runs")
	fmt.Fprintln(w, "  fortiaudit show [-format f] <run-id>      Print a stored run")
	fmt.Fprintln(w, "  fortiaudit diff <run-id> <run-id>         Compare two stored runs")
	fmt.Fprintln(w, "  fortiaudit checks [-dialect d]            List the check catalog")
	fmt.Fprintln(w, "  fortiaudit version                        Print build information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check flags:")
	fmt.Fprintln(w, "  -dialect     switch or wireless (default from config, else switch)")
	fmt.Fprintln(w, "  -config      config file (default fortiaudit.yaml)")
	fmt.Fprintln(w, "  -format      stdout format: text, json, yaml, html, csv (default text)")
	fmt.Fprintln(w, "  -out         report directory (overrides output_dir)")
	fmt.Fprintln(w, "  -formats     comma-separated report file formats, or none")
	fmt.Fprintln(w, "  -no-history  do not record the run")
	fmt.Fprintln(w, "  -quiet       suppress log output")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit status is 1 when any check fails and 2 on errors.")
}
