package compiler

import (
	"fmt"
	"strings"
)

// CompileError aggregates every syntactic or static-semantic problem found
// during a single compile (spec.md §4.4: "the compiler resynchronises and
// continues"; a single CompileError is reported at the end). Its Error
// string lists one entry per line, "[line N] Error at WHERE: message" (or
// "[line N] Error: message" for errors reported on a scanner error token).
type CompileError struct {
	Messages []string
}

func (e *CompileError) Error() string {
	return strings.Join(e.Messages, "\n")
}

func newCompileError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &CompileError{Messages: messages}
}

func formatError(line int, where, msg string) string {
	if where == "" {
		return fmt.Sprintf("[line %d] Error: %s", line, msg)
	}
	return fmt.Sprintf("[line %d] Error at %s: %s", line, where, msg)
}
