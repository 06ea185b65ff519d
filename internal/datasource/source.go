// Package datasource discovers, validates, and selects the catalog source
// for a session. Candidates are a SQLite database, YAML and JSON catalog
// files, and the compiled-in catalog as the last resort.
package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/loader"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (catalog.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeYAML is a catalog.yaml or catalog.yml file
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeJSON is a catalog.json file
	SourceTypeJSON SourceType = "json"
	// SourceTypeBuiltin is the catalog compiled into the binary
	SourceTypeBuiltin SourceType = "builtin"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite  = 100
	PriorityYAML    = 80
	PriorityJSON    = 50
	PriorityBuiltin = 0
)

// SQLiteFileName is the database file looked up in a catalog directory.
const SQLiteFileName = "catalog.db"

// DataSource represents a potential source of catalog data
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the path to the source file; empty for the builtin source
	Path string `json:"path,omitempty"`
	// Priority determines preference between valid sources (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// ScenarioCount is the number of scenarios in the source (set during validation)
	ScenarioCount int `json:"scenario_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	path := s.Path
	if path == "" {
		path = "<builtin>"
	}
	return fmt.Sprintf("%s (%s, priority=%d, scenarios=%d, %s)",
		path, s.Type, s.Priority, s.ScenarioCount, status)
}

// Builtin returns the data source describing the compiled-in catalog.
func Builtin() DataSource {
	return DataSource{Type: SourceTypeBuiltin, Priority: PriorityBuiltin}
}

// DiscoveryOptions configures source discovery behavior
type DiscoveryOptions struct {
	// Dir is the directory searched for catalog files (cwd if empty)
	Dir string
	// ValidateAfterDiscovery runs validation on each discovered source
	ValidateAfterDiscovery bool
	// IncludeInvalid includes sources that failed validation in results
	IncludeInvalid bool
	// IncludeBuiltin appends the compiled-in catalog as a candidate
	IncludeBuiltin bool
}

// DiscoverSources finds all candidate catalog sources in a directory.
// Results are ordered by priority, then by modification time (newest first).
func DiscoverSources(ctx context.Context, opts DiscoveryOptions) ([]DataSource, error) {
	defer metrics.Timer(metrics.SourceDetect)()
	dir := opts.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	debug.Log("discovering catalog sources in %s", dir)

	var sources []DataSource
	candidates := []struct {
		name     string
		typ      SourceType
		priority int
	}{
		{SQLiteFileName, SourceTypeSQLite, PrioritySQLite},
		{loader.PreferredCatalogNames[0], SourceTypeYAML, PriorityYAML},
		{loader.PreferredCatalogNames[1], SourceTypeYAML, PriorityYAML},
		{loader.PreferredCatalogNames[2], SourceTypeJSON, PriorityJSON},
	}
	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		sources = append(sources, DataSource{
			Type:     c.typ,
			Path:     path,
			Priority: c.priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		debug.Log("found %s source: %s (mod=%s)", c.typ, path, info.ModTime().Format(time.RFC3339))
	}
	if opts.IncludeBuiltin {
		sources = append(sources, Builtin())
	}

	if opts.ValidateAfterDiscovery {
		if err := ValidateSources(ctx, sources); err != nil {
			return nil, err
		}
		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sortSources(sources)
	debug.Log("discovered %d sources", len(sources))
	return sources, nil
}

// ValidateSources validates every source concurrently. Individual failures
// are recorded on the source; only context cancellation is returned.
func ValidateSources(ctx context.Context, sources []DataSource) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := range sources {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := ValidateSource(&sources[i]); err != nil {
				debug.Log("validation failed for %s: %v", sources[i], err)
			}
			return nil
		})
	}
	return g.Wait()
}

// ValidateSource loads the source and records whether it holds a valid
// catalog.
func ValidateSource(source *DataSource) error {
	cat, err := LoadFromSource(*source)
	if err != nil {
		source.Valid = false
		source.ValidationError = err.Error()
		source.ScenarioCount = 0
		return err
	}
	source.Valid = true
	source.ValidationError = ""
	source.ScenarioCount = cat.Len()
	return nil
}

// SelectBestSource picks the valid source with the highest priority,
// breaking ties by freshness.
func SelectBestSource(sources []DataSource) (DataSource, error) {
	var valid []DataSource
	for _, s := range sources {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return DataSource{}, fmt.Errorf("no valid sources among %d candidates", len(sources))
	}
	sortSources(valid)
	return valid[0], nil
}

func sortSources(sources []DataSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].Priority != sources[j].Priority {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})
}
