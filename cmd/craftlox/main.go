// Command craftlox runs the Lox compiler and virtual machine: given a file
// path it compiles and executes that file, and with no arguments it drops
// into a line-oriented REPL (spec.md §6).
package main

import (
	"os"

	"github.com/mna/craftlox/internal/maincmd"
	"github.com/mna/mainer"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
