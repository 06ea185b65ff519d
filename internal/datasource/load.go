package datasource

import (
	"context"
	"fmt"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/debug"
	"github.com/vanderheijden86/medadventure/pkg/loader"
	"github.com/vanderheijden86/medadventure/pkg/metrics"
)

// LoadCatalog performs source detection in dir and loads the best catalog.
// An explicit path (flag, config or MMA_CATALOG) bypasses detection. When
// nothing valid is found, the compiled-in catalog is returned together with
// the builtin source.
func LoadCatalog(ctx context.Context, dir, explicit string) (*catalog.Catalog, DataSource, error) {
	defer metrics.Timer(metrics.CatalogLoad)()

	if explicit != "" {
		source, err := SourceForPath(explicit)
		if err != nil {
			return nil, DataSource{}, err
		}
		cat, err := LoadFromSource(source)
		if err != nil {
			return nil, source, err
		}
		source.Valid = true
		source.ScenarioCount = cat.Len()
		return cat, source, nil
	}

	sources, err := DiscoverSources(ctx, DiscoveryOptions{
		Dir:                    dir,
		ValidateAfterDiscovery: true,
	})
	if err != nil {
		return nil, DataSource{}, err
	}
	best, err := SelectBestSource(sources)
	if err != nil {
		debug.Log("no catalog source in %s, using builtin: %v", dir, err)
		b := Builtin()
		b.Valid = true
		b.ScenarioCount = catalog.Default().Len()
		return catalog.Default(), b, nil
	}

	cat, err := LoadFromSource(best)
	if err != nil {
		return nil, best, err
	}
	debug.Log("loaded catalog from %s", best)
	return cat, best, nil
}

// SourceForPath describes an explicit catalog path.
func SourceForPath(path string) (DataSource, error) {
	source := DataSource{Path: path}
	switch {
	case isSQLitePath(path):
		source.Type, source.Priority = SourceTypeSQLite, PrioritySQLite
	default:
		format, err := loader.FormatFor(path)
		if err != nil {
			return DataSource{}, err
		}
		if format == loader.FormatYAML {
			source.Type, source.Priority = SourceTypeYAML, PriorityYAML
		} else {
			source.Type, source.Priority = SourceTypeJSON, PriorityJSON
		}
	}
	return source, nil
}

// LoadFromSource loads a catalog from a specific DataSource, dispatching to
// the appropriate reader based on source type.
func LoadFromSource(source DataSource) (*catalog.Catalog, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadCatalog()

	case SourceTypeYAML, SourceTypeJSON:
		return loader.LoadCatalogFromFile(source.Path)

	case SourceTypeBuiltin:
		return catalog.Default(), nil

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
