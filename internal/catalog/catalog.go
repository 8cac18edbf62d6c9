// ABOUTME: Product catalog provider
// ABOUTME: Loads inventory from JSON or YAML and serves it in catalog order
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Product is one catalog entry
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Specs       Specs    `json:"specs" yaml:"specs"`
	VisualTags  []string `json:"visual_tags" yaml:"visual_tags"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
}

// SpecsText returns the serialized spec mapping used for search
func (p Product) SpecsText() string {
	data, err := p.Specs.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// Catalog is an immutable ordered product list
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog, rejecting empty or duplicate ids
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(c.products, products)

	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d has no id", i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("product %q has negative price", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Load reads a catalog file. Files ending in .yaml or .yml are YAML,
// everything else is JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog from json or yaml
func Parse(data []byte, format string) (*Catalog, error) {
	var products []Product

	switch format {
	case "json":
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", format)
	}

	return New(products)
}

// Products returns the products in catalog order
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup finds a product by id
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Len returns the number of products
func (c *Catalog) Len() int {
	return len(c.products)
}
