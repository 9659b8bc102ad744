package scripttest_test

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/craftlox/internal/scripttest"
)

var testUpdateScriptTests = flag.Bool("test.update-script-tests", false, "If set, replace expected script test results with actual results.")

func TestScripts(t *testing.T) {
	dir := filepath.Join("testdata", "scripts")
	for _, name := range scripttest.Scripts(t, dir) {
		t.Run(name, func(t *testing.T) {
			scripttest.Run(t, name, dir, dir, testUpdateScriptTests)
		})
	}
}
