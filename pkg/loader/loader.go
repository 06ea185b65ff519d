package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/medadventure/pkg/catalog"
	"github.com/vanderheijden86/medadventure/pkg/model"
)

// CatalogEnvVar names the environment variable for an explicit catalog file.
const CatalogEnvVar = "MMA_CATALOG"

// PreferredCatalogNames defines the lookup priority inside a directory.
var PreferredCatalogNames = []string{"catalog.yaml", "catalog.yml", "catalog.json"}

// ErrNoCatalog is returned when a directory has no catalog file.
var ErrNoCatalog = errors.New("no catalog file found")

// Format is the on-disk encoding of a catalog.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor infers the encoding from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported catalog extension %q", filepath.Ext(path))
	}
}

// FindCatalogPath locates the catalog file in dir. MMA_CATALOG, when set,
// wins over anything in the directory. Empty files are skipped.
func FindCatalogPath(dir string) (string, error) {
	if env := os.Getenv(CatalogEnvVar); env != "" {
		return env, nil
	}

	for _, name := range PreferredCatalogNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s", ErrNoCatalog, dir)
}

// LoadCatalogFromFile reads and validates a catalog file.
func LoadCatalogFromFile(path string) (*catalog.Catalog, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer file.Close()

	cat, err := ParseCatalog(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// LoadScenariosFromFile is LoadCatalogFromFile without validation. It is
// used by callers that report problems instead of failing on the first one.
func LoadScenariosFromFile(path string) ([]model.Scenario, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return decodeScenarios(data, format)
}

// ParseCatalog decodes a catalog document. The top level is either a list
// of scenarios or an object with a "scenarios" list.
func ParseCatalog(r io.Reader, format Format) (*catalog.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	scenarios, err := decodeScenarios(data, format)
	if err != nil {
		return nil, err
	}
	return catalog.New(scenarios)
}

type document struct {
	Scenarios []model.Scenario `json:"scenarios" yaml:"scenarios"`
}

func decodeScenarios(data []byte, format Format) ([]model.Scenario, error) {
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return nil, catalog.ErrEmpty
	}

	switch format {
	case FormatJSON:
		if data[0] == '[' {
			var list []model.Scenario
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, fmt.Errorf("parsing catalog JSON: %w", err)
			}
			return list, nil
		}
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
		return doc.Scenarios, nil

	case FormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
		root := &node
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}
		if root.Kind == yaml.SequenceNode {
			var list []model.Scenario
			if err := root.Decode(&list); err != nil {
				return nil, fmt.Errorf("parsing catalog YAML: %w", err)
			}
			return list, nil
		}
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
		return doc.Scenarios, nil
	}
	return nil, fmt.Errorf("unsupported catalog format %q", format)
}

// stripBOM removes a leading UTF-8 byte order mark.
func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})
}

// Marshal encodes a catalog in the given format using the same document
// shape ParseCatalog accepts.
func Marshal(cat *catalog.Catalog, format Format) ([]byte, error) {
	doc := document{Scenarios: cat.Scenarios()}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unsupported catalog format %q", format)
}
