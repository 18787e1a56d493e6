package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Commands.
const (
	cmdRender     = "render"
	cmdExport     = "export"
	cmdTemplates  = "templates"
	cmdValidate   = "validate"
	cmdSchema     = "schema"
	cmdDoctor     = "doctor"
	cmdVersion    = "version"
	cmdHelp       = "help"
	cmdCompletion = "completion"
)

// ErrUnknownCommand is returned for an unrecognized command name.
var ErrUnknownCommand = errors.New("unknown command")

func main() {
	env := DefaultEnv()
	setMaxProcs(env.Stderr, hasVerboseFlag(os.Args[1:]))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args, env)
	stop()
	os.Exit(code)
}

// setMaxProcs configures GOMAXPROCS, logging the change in verbose mode.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(w io.Writer, verbose bool) {
	logf := func(string, ...any) {}
	if verbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}

// hasVerboseFlag scans raw arguments before command flags are parsed.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// run dispatches a command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}
	warnUnknownEnvVars(env.Stderr)

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case cmdRender, cmdExport:
		err = runConvert(ctx, cmd, rest, env)
	case cmdTemplates:
		err = runTemplates(rest, env)
	case cmdValidate:
		err = runValidate(rest, env)
	case cmdSchema:
		err = runSchema(env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdCompletion:
		err = runCompletion(rest, env)
	case cmdVersion:
		fmt.Fprintf(env.Stdout, "cvkit %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		runHelp(rest, env)
		return ExitSuccess
	default:
		printUsage(env.Stderr)
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}
