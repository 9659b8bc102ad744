package maincmd

import (
	"fmt"

	"github.com/mna/craftlox/lang/vm"
	"github.com/mna/mainer"
)

// run interprets source on a freshly constructed VM, wired per the flags on
// c, and writes output/errors to stdio.
func run(stdio mainer.Stdio, c *Cmd, source string) error {
	m := vm.New()
	m.Stdout = stdio.Stdout
	m.Stderr = stdio.Stderr
	m.GCStressMode = c.GCStress
	m.GCLogMode = c.GCLog
	if c.Trace {
		m.Trace = func(ev vm.TraceEvent) {
			fmt.Fprintf(stdio.Stderr, "frame %d ", ev.Frame)
			m.Chunk().DisassembleInstruction(stdio.Stderr, ev.IP)
		}
	}
	return m.Interpret(source)
}
