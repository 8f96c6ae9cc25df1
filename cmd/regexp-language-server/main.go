package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"bennypowers.dev/rxls/internal/log"
	"bennypowers.dev/rxls/internal/regexp/check"
	"bennypowers.dev/rxls/internal/regexp/dialect"
	"bennypowers.dev/rxls/internal/version"
	"bennypowers.dev/rxls/lsp"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches on the first argument and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "check" {
		return runCheck(args[1:], stdout, stderr)
	}

	flags := flag.NewFlagSet("regexp-language-server", flag.ContinueOnError)
	flags.SetOutput(stderr)
	showVersion := flags.Bool("version", false, "Print the version and exit")
	debug := flags.Bool("debug", false, "Log every JSON-RPC message")
	verbosity := flags.Int("verbosity", 0, "glsp log verbosity (0 silences it)")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  regexp-language-server [flags]\n  regexp-language-server check [--dialect NAME] PATTERN...\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.Get().String())
		return 0
	}

	// glsp logs through commonlog; the simple backend writes to stderr
	commonlog.Configure(*verbosity, nil)
	if *debug {
		log.SetLevel(log.LevelDebug)
	}

	server, err := lsp.NewServer(lsp.WithDebug(*debug))
	if err != nil {
		log.Error("Failed to create LSP server: %v", err)
		return 1
	}
	defer func() { _ = server.Close() }()

	// Run with stdio transport (for VSCode and other editors)
	if err := server.RunStdio(); err != nil {
		log.Error("Server error: %v", err)
		return 1
	}
	return 0
}

// runCheck validates patterns from the command line, one finding per line.
// The exit status is 1 when any pattern has an error.
func runCheck(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dialectName := flags.String("dialect", "java", "Dialect to validate against")
	var dialectFiles []string
	flags.Func("dialect-file", "Load a custom dialect descriptor (repeatable)", func(path string) error {
		dialectFiles = append(dialectFiles, path)
		return nil
	})
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	patterns := flags.Args()
	if len(patterns) == 0 {
		fmt.Fprintln(stderr, "check: no patterns given")
		return 2
	}

	registry, err := dialect.NewRegistry()
	if err != nil {
		fmt.Fprintf(stderr, "check: %v\n", err)
		return 1
	}
	for _, path := range dialectFiles {
		if _, err := registry.LoadFile(path); err != nil {
			fmt.Fprintf(stderr, "check: %v\n", err)
			return 2
		}
	}
	d, err := registry.Get(*dialectName)
	if err != nil {
		fmt.Fprintf(stderr, "check: %v (known: %v)\n", err, registry.Names())
		return 2
	}

	status := 0
	for _, pattern := range patterns {
		if len(patterns) > 1 {
			fmt.Fprintf(stdout, "%s\n", pattern)
		}
		res := check.Pattern(pattern, d)
		for _, diag := range res.Diagnostics {
			fmt.Fprintf(stdout, "%d:%s: %s\n", diag.Span.Start, diag.Severity, diag.Message)
		}
		if res.HasErrors() {
			status = 1
		}
	}
	return status
}
