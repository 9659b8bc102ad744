// Package maincmd implements the craftlox command-line entry point: file
// mode and the line-oriented REPL (spec.md §6's CLI surface).
package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
)

const binName = "craftlox"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] [<path>]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] [<path>]
       %[1]s -h|--help
       %[1]s -v|--version

Compiler and virtual machine for the Lox programming language.

With <path>, compiles and runs that file. Without it, reads a
line-oriented REPL from standard input; the input line "exit" ends it.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       --trace                   Print each executed instruction to stderr.
       --gc-stress               Run a garbage collection before every
                                 allocation, to shake out GC bugs.
       --gc-log                  Print a line to stderr around every
                                 garbage collection.
`, binName)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help     bool `flag:"h,help"`
	Version  bool `flag:"v,version"`
	Trace    bool `flag:"trace"`
	GCStress bool `flag:"gc-stress"`
	GCLog    bool `flag:"gc-log"`

	args []string
}

func (c *Cmd) SetArgs(args []string)         { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) > 1 {
		return fmt.Errorf("at most one file path may be given, got %d", len(c.args))
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)

	var err error
	if len(c.args) == 1 {
		err = c.runFile(ctx, stdio, c.args[0])
	} else {
		err = c.repl(ctx, stdio)
	}
	if err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

func (c *Cmd) runFile(_ context.Context, stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return err
	}
	return run(stdio, c, string(src))
}

// repl evaluates one line of source per iteration until the input line
// "exit" is read or standard input is exhausted (spec.md §6).
func (c *Cmd) repl(_ context.Context, stdio mainer.Stdio) error {
	scan := bufio.NewScanner(stdio.Stdin)
	var lastErr error
	for {
		fmt.Fprint(stdio.Stdout, "> ")
		if !scan.Scan() {
			return lastErr
		}
		line := scan.Text()
		if line == "exit" {
			return lastErr
		}
		if err := run(stdio, c, line); err != nil {
			fmt.Fprintf(stdio.Stderr, "%s\n", err)
			lastErr = err
		}
	}
}
