// bf runs a tape program from a source file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tapeLang/tape/pkg/config"
	"github.com/tapeLang/tape/pkg/engine"
	"github.com/tapeLang/tape/pkg/logs"
	"github.com/tapeLang/tape/pkg/scanner"
)

const usage = `
Program: bf

Usage:
    bf [flags] <filepath>  :   executes given file.

Flags:
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process exit. Program output, traces and
// fatal diagnostics go to stdout; logs go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bf", flag.ContinueOnError)
	fs.SetOutput(stdout)
	configPath := fs.String("config", "", "YAML config file")
	tapeSize := fs.Int("tape", engine.DefaultTapeSize, "Tape size in cells")
	debug := fs.Bool("debug", false, "Print a trace line before each instruction")
	maxSteps := fs.Int("max-steps", 0, "Step limit (0 = unlimited)")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprint(stdout, usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fail(stdout, err)
		}
		cfg = loaded
	}

	// Flags given on the command line win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tape":
			cfg.TapeSize = *tapeSize
		case "debug":
			cfg.Debug = *debug
		case "max-steps":
			cfg.MaxSteps = *maxSteps
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return fail(stdout, err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logs.New(logs.Options{Level: level, Writer: stderr})

	prog, err := scanner.ScanFile(fs.Arg(0))
	if err != nil {
		return fail(stdout, err)
	}
	logger.Info("scanned source", "path", prog.Name, "tokens", prog.Len())

	e := engine.New(cfg.Engine(stdout, logger))
	if err := e.Run(prog.Tokens); err != nil {
		return fail(stdout, err)
	}
	return 0
}

// fail reports a fatal error the way every diagnostic is reported.
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "ERROR: %v\n", err)
	return 1
}
