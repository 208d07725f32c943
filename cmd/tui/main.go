// Command tui provides an interactive terminal UI for fortiaudit.
//
// Subcommands:
//
//	view    audit a configuration file and browse the result
//	prompt  ask for the dialect and file, then browse the result
//	remote  browse a run stored by the dashboard
//
// Usage:
//
//	go run ./cmd/tui view [--dialect switch|wireless] <config-file>
//	go run ./cmd/tui prompt
//	go run ./cmd/tui remote [--api localhost:8080] <run-id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/config"
	"github.com/fortiaudit/fortiaudit/internal/tui/prompt"
	"github.com/fortiaudit/fortiaudit/internal/tui/viewer"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "view":
		runView(os.Args[2:])
	case "prompt":
		runPrompt(os.Args[2:])
	case "remote":
		runRemote(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("fortiaudit TUI")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tui view [--dialect d] [--config f] <file>  Audit a file and browse the result")
	fmt.Println("  tui prompt [--config f]                     Ask for dialect and file interactively")
	fmt.Println("  tui remote [--api addr] <run-id>            Browse a run stored by the dashboard")
	fmt.Println()
	fmt.Println("Keys: arrows/pgup/pgdn scroll, b toggles blocks, r reloads, q quits")
}

// newAuditor discards audit log lines, which would otherwise land on the alt
// screen.
func newAuditor() *audit.Auditor {
	return audit.New(audit.Options{Logger: log.New(io.Discard, "", 0)})
}

func defaultDialect(configPath string) fortiparse.Dialect {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	d, err := fortiparse.ParseDialect(cfg.Dialect)
	if err != nil {
		return fortiparse.DialectSwitch
	}
	return d
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	dialect := fs.String("dialect", "", "switch or wireless (default from config)")
	configPath := fs.String("config", "", "config file (default fortiaudit.yaml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tui view [--dialect d] <config-file>")
		os.Exit(1)
	}

	d := defaultDialect(*configPath)
	if *dialect != "" {
		var err error
		if d, err = fortiparse.ParseDialect(*dialect); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	show(viewer.FileLoader(newAuditor(), d, fs.Arg(0)))
}

func runPrompt(args []string) {
	fs := flag.NewFlagSet("prompt", flag.ExitOnError)
	configPath := fs.String("config", "", "config file (default fortiaudit.yaml)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	answers, err := prompt.Run(context.Background(), prompt.Answers{Dialect: defaultDialect(*configPath)})
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	show(viewer.FileLoader(newAuditor(), answers.Dialect, answers.Path))
}

func runRemote(args []string) {
	fs := flag.NewFlagSet("remote", flag.ExitOnError)
	apiAddr := fs.String("api", "127.0.0.1:8080", "Dashboard API address (host:port)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tui remote [--api addr] <run-id>")
		os.Exit(1)
	}

	show(viewer.RemoteLoader(*apiAddr, fs.Arg(0)))
}

func show(loader viewer.Loader) {
	p := tea.NewProgram(viewer.New(loader), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
