package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestRecoveryGolden runs each testdata/recovery/*.txtar archive's in.fx
// through ParseFile and checks the rendered diagnostics against want.txt,
// bundling source and expected output per scenario in the txtar-as-fixture
// idiom (SPEC_FULL.md §8.A).
func TestRecoveryGolden(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("testdata", "recovery", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) == 0 {
		t.Fatal("no golden fixtures found under testdata/recovery")
	}
	for _, path := range matches {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			a := txtar.Parse(data)
			var in, want []byte
			for _, f := range a.Files {
				switch f.Name {
				case "in.fx":
					in = f.Data
				case "want.txt":
					want = f.Data
				}
			}
			if in == nil || want == nil {
				t.Fatalf("%s must define both in.fx and want.txt sections", path)
			}
			_, diags := ParseFile("in.fx", string(in))
			got := diags.String()
			if strings.TrimSpace(got) != strings.TrimSpace(string(want)) {
				t.Errorf("diagnostics mismatch for %s:\n got:\n%s\nwant:\n%s", path, got, want)
			}
		})
	}
}
