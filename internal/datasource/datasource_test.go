package datasource

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/loader"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

func writeCatalog(t *testing.T, path string, cat *catalog.Catalog) {
	t.Helper()
	format, err := loader.FormatFor(path)
	if err != nil {
		t.Fatal(err)
	}
	data, err := loader.Marshal(cat, format)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func smallCatalog(ids ...int) *catalog.Catalog {
	var scenarios []model.Scenario
	for _, id := range ids {
		scenarios = append(scenarios, model.Scenario{
			ID:        id,
			Title:     "Scenario",
			Character: "Lee",
			Choices: []model.Choice{
				{ID: 1, Title: "One", Outcome: model.Outcome{Result: "Jackpot!", KeyTakeaways: []string{"a", "b"}}},
				{ID: 2, Title: "Two", Outcome: model.Outcome{Result: "Gap in coverage!"}},
			},
		})
	}
	return catalog.MustNew(scenarios)
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), SQLiteFileName)
	if err := WriteSQLite(catalog.Default(), path); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}

	reader, err := NewSQLiteReader(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		t.Fatalf("NewSQLiteReader: %v", err)
	}
	defer reader.Close()

	cat, err := reader.LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if diff := cmp.Diff(catalog.Default().Scenarios(), cat.Scenarios()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	n, err := reader.CountScenarios()
	if err != nil || n != 4 {
		t.Fatalf("CountScenarios() = %d, %v", n, err)
	}
	if _, err := reader.ExportedAt(); err != nil {
		t.Fatalf("ExportedAt: %v", err)
	}
}

func TestWriteSQLiteReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SQLiteFileName)
	if err := WriteSQLite(smallCatalog(1, 2, 3), path); err != nil {
		t.Fatal(err)
	}
	if err := WriteSQLite(smallCatalog(9), path); err != nil {
		t.Fatal(err)
	}
	cat, err := LoadFromSource(DataSource{Type: SourceTypeSQLite, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{9}, cat.IDs()); diff != "" {
		t.Fatalf("expected only the second catalog (-want +got):\n%s", diff)
	}
}

func TestNewSQLiteReaderRejectsOtherTypes(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON, Path: "x.json"}); err == nil {
		t.Fatal("expected error for non-SQLite source")
	}
}

func TestDiscoverSourcesPrefersSQLite(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, filepath.Join(dir, "catalog.json"), smallCatalog(1))
	writeCatalog(t, filepath.Join(dir, "catalog.yaml"), smallCatalog(1, 2))
	if err := WriteSQLite(smallCatalog(1, 2, 3), filepath.Join(dir, SQLiteFileName)); err != nil {
		t.Fatal(err)
	}

	sources, err := DiscoverSources(context.Background(), DiscoveryOptions{
		Dir:                    dir,
		ValidateAfterDiscovery: true,
		IncludeBuiltin:         true,
	})
	if err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	var types []SourceType
	for _, s := range sources {
		types = append(types, s.Type)
	}
	want := []SourceType{SourceTypeSQLite, SourceTypeYAML, SourceTypeJSON, SourceTypeBuiltin}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("source order (-want +got):\n%s", diff)
	}
	if sources[0].ScenarioCount != 3 {
		t.Errorf("expected sqlite source to report 3 scenarios, got %d", sources[0].ScenarioCount)
	}
}

func TestDiscoverSourcesRecordsTiming(t *testing.T) {
	metrics.SetEnabled(true)
	before := metrics.SourceDetect.Count()

	if _, err := DiscoverSources(context.Background(), DiscoveryOptions{Dir: t.TempDir(), IncludeBuiltin: true}); err != nil {
		t.Fatalf("DiscoverSources: %v", err)
	}
	if got := metrics.SourceDetect.Count(); got != before+1 {
		t.Fatalf("source_detect count = %d, want %d", got, before+1)
	}
}

func TestDiscoverSourcesDropsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte("scenarios: ["), 0644); err != nil {
		t.Fatal(err)
	}
	writeCatalog(t, filepath.Join(dir, "catalog.json"), smallCatalog(5))

	all, err := DiscoverSources(context.Background(), DiscoveryOptions{
		Dir:                    dir,
		ValidateAfterDiscovery: true,
		IncludeInvalid:         true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(all))
	}
	if all[0].Valid || all[0].ValidationError == "" {
		t.Errorf("expected yaml source to be invalid with an error, got %+v", all[0])
	}
	if !strings.Contains(all[0].String(), "invalid") {
		t.Errorf("String() should mention invalid: %s", all[0])
	}

	valid, err := DiscoverSources(context.Background(), DiscoveryOptions{
		Dir:                    dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(valid) != 1 || valid[0].Type != SourceTypeJSON {
		t.Fatalf("expected only the json source, got %v", valid)
	}
}

func TestSelectBestSource(t *testing.T) {
	now := time.Now()
	sources := []DataSource{
		{Type: SourceTypeJSON, Priority: PriorityJSON, ModTime: now, Valid: true},
		{Type: SourceTypeYAML, Priority: PriorityYAML, ModTime: now.Add(-time.Hour), Valid: true},
		{Type: SourceTypeYAML, Priority: PriorityYAML, ModTime: now, Valid: true, Path: "fresh"},
		{Type: SourceTypeSQLite, Priority: PrioritySQLite, ModTime: now, Valid: false},
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		t.Fatal(err)
	}
	if best.Type != SourceTypeYAML || best.Path != "fresh" {
		t.Fatalf("expected fresh yaml source, got %v", best)
	}

	if _, err := SelectBestSource([]DataSource{{Valid: false}}); err == nil {
		t.Fatal("expected error with no valid sources")
	}
}

func TestLoadCatalogFallsBackToBuiltin(t *testing.T) {
	cat, source, err := LoadCatalog(context.Background(), t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if source.Type != SourceTypeBuiltin {
		t.Fatalf("expected builtin source, got %v", source)
	}
	if cat.Len() != 4 {
		t.Fatalf("expected default catalog, got %d scenarios", cat.Len())
	}
}

func TestLoadCatalogExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yml")
	writeCatalog(t, path, smallCatalog(4, 2))

	cat, source, err := LoadCatalog(context.Background(), "", path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if source.Type != SourceTypeYAML || source.ScenarioCount != 2 {
		t.Fatalf("unexpected source %v", source)
	}
	if diff := cmp.Diff([]int{4, 2}, cat.IDs()); diff != "" {
		t.Fatalf("ids (-want +got):\n%s", diff)
	}

	if _, _, err := LoadCatalog(context.Background(), "", "catalog.txt"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestDetectInconsistencies(t *testing.T) {
	a := smallCatalog(1, 2, 3).Scenarios()
	b := smallCatalog(2, 1, 4).Scenarios()
	b[0].Choices[0].Outcome.Result = "Coverage loss!"

	diff := DetectInconsistencies(a, b, "a", "b")
	if !diff.HasInconsistencies() {
		t.Fatal("expected inconsistencies")
	}
	if diff2 := cmp.Diff([]int{4}, diff.MissingInA); diff2 != "" {
		t.Errorf("MissingInA (-want +got):\n%s", diff2)
	}
	if diff2 := cmp.Diff([]int{3}, diff.MissingInB); diff2 != "" {
		t.Errorf("MissingInB (-want +got):\n%s", diff2)
	}
	if !diff.OrderDiffers {
		t.Error("expected order difference")
	}
	want := []ResultDifference{{ScenarioID: 2, ChoiceID: 1, ResultA: "Jackpot!", ResultB: "Coverage loss!"}}
	if d := cmp.Diff(want, diff.ResultMismatch); d != "" {
		t.Errorf("ResultMismatch (-want +got):\n%s", d)
	}
	if !strings.Contains(diff.Summary(), "order differs") {
		t.Errorf("summary missing order note:\n%s", diff.Summary())
	}

	same := DetectInconsistencies(a, a, "a", "a")
	if same.HasInconsistencies() {
		t.Fatalf("identical lists should match: %s", same.Summary())
	}
}

func TestCheckAllSourcesConsistent(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, filepath.Join(dir, "catalog.json"), smallCatalog(1))
	writeCatalog(t, filepath.Join(dir, "catalog.yaml"), smallCatalog(1, 2))

	sources, err := DiscoverSources(context.Background(), DiscoveryOptions{Dir: dir, ValidateAfterDiscovery: true})
	if err != nil {
		t.Fatal(err)
	}
	diffs := CheckAllSourcesConsistent(sources)
	if len(diffs) != 1 {
		t.Fatalf("expected one diff, got %d", len(diffs))
	}
}
