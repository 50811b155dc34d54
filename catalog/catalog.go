// Package catalog holds the fixed list of lifeguard posts and the materials
// tracked at each of them.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalogo.yaml
var defaultCatalog []byte

// Catalog is the set of posts, material categories and unit-tracked equipment
type Catalog struct {
	Postos       []int       `yaml:"postos" json:"postos"`
	Categorias   []Categoria `yaml:"categorias" json:"categorias"`
	Equipamentos []string    `yaml:"equipamentos" json:"equipamentos"`
}

// Categoria groups materials
type Categoria struct {
	Nome      string   `yaml:"nome" json:"nome"`
	Materiais []string `yaml:"materiais" json:"materiais"`
}

// Default returns the catalog shipped with the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates a YAML catalog
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Postos) == 0 {
		return nil, fmt.Errorf("catalog has no postos")
	}
	seen := map[int]bool{}
	for _, p := range c.Postos {
		if p <= 0 {
			return nil, fmt.Errorf("invalid posto %d", p)
		}
		if seen[p] {
			return nil, fmt.Errorf("duplicate posto %d", p)
		}
		seen[p] = true
	}
	sort.Ints(c.Postos)
	return &c, nil
}

// HasPosto reports whether p is a known post
func (c *Catalog) HasPosto(p int) bool {
	i := sort.SearchInts(c.Postos, p)
	return i < len(c.Postos) && c.Postos[i] == p
}

// HasMaterial reports whether material belongs to categoria
func (c *Catalog) HasMaterial(categoria, material string) bool {
	for _, cat := range c.Categorias {
		if cat.Nome != categoria {
			continue
		}
		for _, m := range cat.Materiais {
			if m == material {
				return true
			}
		}
	}
	return false
}

// IsEquipamento reports whether material is tracked per unit
func (c *Catalog) IsEquipamento(material string) bool {
	for _, m := range c.Equipamentos {
		if m == material {
			return true
		}
	}
	return false
}
