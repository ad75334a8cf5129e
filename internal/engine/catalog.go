package engine

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogEntry is a mission template handed out by AssignRandomMission.
type CatalogEntry struct {
	Description string `yaml:"description"`
	Area        string `yaml:"area,omitempty"`
	PriorityRaw string `yaml:"priority,omitempty"`

	Priority Priority `yaml:"-"`
}

type Catalog struct {
	Missions []CatalogEntry `yaml:"missions"`
}

// DefaultCatalog returns the built-in catalog. It panics only if the embedded
// file is broken, which the tests catch.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file; an empty path yields the default catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Missions) == 0 {
		return nil, fmt.Errorf("catalog has no missions")
	}
	seen := map[string]bool{}
	for i := range c.Missions {
		e := &c.Missions[i]
		desc, err := normalizeText("description", e.Description)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		e.Description = desc
		if strings.TrimSpace(e.Area) != "" {
			if e.Area, err = normalizeText("area", e.Area); err != nil {
				return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
			}
		}
		if seen[e.Description] {
			return nil, fmt.Errorf("catalog entry %d: duplicate description %q", i+1, e.Description)
		}
		seen[e.Description] = true

		e.Priority = DefaultPriority
		if e.PriorityRaw != "" {
			p, err := ParsePriority(e.PriorityRaw)
			if err != nil {
				return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
			}
			e.Priority = p
		}
	}
	return &c, nil
}
