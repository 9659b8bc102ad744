// Package scripttest is a golden-file harness for end-to-end Lox programs:
// each "testdata/scripts/*.lox" fixture is interpreted on a fresh VM and its
// captured stdout and returned error message are diffed against sibling
// ".want"/".err" files
// (spec.md §8's end-to-end scenarios).
package scripttest

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/mna/craftlox/lang/vm"
)

var updateAllGoldenFiles = flag.Bool("test.update-all-tests", false, "If set, overwrites every golden file with the actual output instead of diffing against it.")

// Scripts returns the base names (without the .lox extension) of every Lox
// fixture in dir, so callers can build one subtest per script.
func Scripts(t *testing.T, dir string) []string {
	t.Helper()

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, dent := range dents {
		if !dent.Type().IsRegular() || filepath.Ext(dent.Name()) != ".lox" {
			continue
		}
		names = append(names, strings.TrimSuffix(dent.Name(), ".lox"))
	}
	return names
}

// Run interprets srcDir/<name>.lox on a fresh VM and checks its captured
// stdout against resultDir/<name>.lox.want and, if the interpretation
// errored, the error's message against resultDir/<name>.lox.err (an empty or
// absent .err file means no error was expected). If updateFlag is set, both golden files
// are overwritten with the actual output instead of checked.
func Run(t *testing.T, name, srcDir, resultDir string, updateFlag *bool) {
	t.Helper()

	src, err := os.ReadFile(filepath.Join(srcDir, name+".lox"))
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	m := vm.New()
	m.Stdout = &stdout
	runErr := m.Interpret(string(src))

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}

	golden := []struct {
		label, ext, got string
	}{
		{"output", ".want", stdout.String()},
		{"error", ".err", errMsg},
	}
	for _, g := range golden {
		checkGolden(t, filepath.Join(resultDir, name+".lox"+g.ext), g.label, g.got, updateFlag)
	}
}

// checkGolden diffs got against the contents of goldFile (treating a
// missing file as empty), or rewrites goldFile with got when updating.
func checkGolden(t *testing.T, goldFile, label, got string, updateFlag *bool) {
	t.Helper()

	if *updateFlag || *updateAllGoldenFiles {
		if err := os.WriteFile(goldFile, []byte(got), 0600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldFile)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}

	want := string(wantb)
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("%s mismatch for %s:\n%s", label, goldFile, patch)
	}
}
