package checker_test

import (
	"bytes"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/typelang/internal/filetest"
	"github.com/mna/typelang/lang/builtins"
	"github.com/mna/typelang/lang/checker"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/scenarios"
	"github.com/mna/typelang/lang/types"
)

var testUpdateCheckerTests = flag.Bool("test.update-checker-tests", false, "If set, replace expected checker golden results with actual results.")

// countForalls reports how many outermost Forall layers wrap t.
func countForalls(t types.Type) int {
	n := 0
	for {
		f, ok := t.(types.Forall)
		if !ok {
			return n
		}
		n++
		t = f.Body
	}
}

// TestCheckerGolden runs every scenario in package scenarios through
// checker.CheckProgram and diffs a coarse, hand-verifiable summary against
// testdata/out - the scenario's acceptance/rejection outcome and forall
// count on stdout, the diagnostic kinds it reported on stderr. The summary
// deliberately omits printed type text and raw diagnostic messages: a
// map-backed row's field order and a generalized variable's letter are
// real but not things this suite pins down character for character.
func TestCheckerGolden(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	byName := make(map[string]scenarios.Scenario)
	for _, s := range scenarios.All() {
		byName[s.Name] = s
	}

	for _, fi := range filetest.SourceFiles(t, srcDir, ".scn") {
		t.Run(fi.Name(), func(t *testing.T) {
			name := strings.TrimSuffix(fi.Name(), ".scn")
			s, ok := byName[name]
			if !ok {
				t.Fatalf("no scenario named %q for testdata file %s", name, fi.Name())
			}

			var buf, ebuf bytes.Buffer
			sink := diag.NewSink()
			c := checker.New(s.Gen, builtins.Default(), sink, nil)
			env, _ := checker.CheckProgram(c, s.Decls)

			switch {
			case sink.HasFatal():
				fmt.Fprintf(&buf, "%s: rejected\n", s.Name)
			case s.Principal.Text == "":
				fmt.Fprintf(&buf, "%s: accepted\n", s.Name)
			default:
				if typ, ok := env.Lookup(s.Principal.Id); ok {
					fmt.Fprintf(&buf, "%s: accepted (%d forall(s))\n", s.Name, countForalls(typ))
				} else {
					fmt.Fprintf(&buf, "%s: accepted, no binding for %s\n", s.Name, s.Principal.Text)
				}
			}
			for _, r := range sink.Reports() {
				fmt.Fprintln(&ebuf, r.Kind.String())
			}

			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateCheckerTests)
			filetest.DiffErrors(t, fi, ebuf.String(), resultDir, testUpdateCheckerTests)
		})
	}
}
