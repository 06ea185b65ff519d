package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/loader"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// AssertScenarioCount fails the test if cat does not hold n scenarios.
func AssertScenarioCount(t *testing.T, cat *catalog.Catalog, n int) {
	t.Helper()
	if cat.Len() != n {
		t.Errorf("expected %d scenarios, got %d", n, cat.Len())
	}
}

// AssertAllValid fails the test for every scenario that does not validate.
func AssertAllValid(t *testing.T, scenarios []model.Scenario) {
	t.Helper()
	for _, s := range scenarios {
		if err := s.Validate(); err != nil {
			t.Errorf("scenario %d invalid: %v", s.ID, err)
		}
	}
}

// AssertOrder fails the test if the catalog ids differ from want.
func AssertOrder(t *testing.T, cat *catalog.Catalog, want ...int) {
	t.Helper()
	if diff := cmp.Diff(want, cat.IDs()); diff != "" {
		t.Errorf("scenario order mismatch (-want +got):\n%s", diff)
	}
}

// AssertCategoryCounts compares outcome category counts.
func AssertCategoryCounts(t *testing.T, cat *catalog.Catalog, want map[model.Category]int) {
	t.Helper()
	got := cat.Stats().ByCategory
	for _, c := range model.Categories() {
		if got[c] != want[c] {
			t.Errorf("%s outcomes: got %d, want %d", c, got[c], want[c])
		}
	}
}

// AssertContainsAll fails for every needle missing from haystack.
func AssertContainsAll(t *testing.T, haystack string, needles ...string) {
	t.Helper()
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			t.Errorf("output missing %q", n)
		}
	}
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      *testing.T
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper. Setting GENERATE_GOLDEN
// rewrites golden files instead of comparing.
func NewGoldenFile(t *testing.T, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("GENERATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()

	path := g.Path()
	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with GENERATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if diff := cmp.Diff(strings.Split(string(expected), "\n"), strings.Split(actual, "\n")); diff != "" {
		g.t.Errorf("golden file %s mismatch (-want +got):\n%s", g.name, diff)
	}
}

// Catalog file helpers

// WriteCatalogFile encodes cat into path, choosing JSON or YAML from the
// extension, and returns path.
func WriteCatalogFile(t *testing.T, path string, cat *catalog.Catalog) string {
	t.Helper()

	format, err := loader.FormatFor(path)
	if err != nil {
		t.Fatalf("catalog path: %v", err)
	}
	data, err := loader.Marshal(cat, format)
	if err != nil {
		t.Fatalf("marshal catalog: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

// TempCatalogDir writes cat as catalog.yaml in a fresh temp directory and
// returns the directory.
func TempCatalogDir(t *testing.T, cat *catalog.Catalog) string {
	t.Helper()
	dir := t.TempDir()
	WriteCatalogFile(t, filepath.Join(dir, "catalog.yaml"), cat)
	return dir
}
