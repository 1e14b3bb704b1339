// Package catalog holds the test packages customers can order and their prices.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed packages.yaml
var defaultPackages []byte

// Package is an orderable test package priced in whole IDR per participant
type Package struct {
	Code        string          `yaml:"code" json:"code"`
	Name        string          `yaml:"name" json:"name"`
	Price       decimal.Decimal `yaml:"-" json:"price"`
	Description string          `yaml:"description" json:"description"`
	Features    []string        `yaml:"features" json:"features"`
}

type packagesFile struct {
	Packages []packageEntry `yaml:"packages"`
}

type packageEntry struct {
	Code        string   `yaml:"code"`
	Name        string   `yaml:"name"`
	Price       int64    `yaml:"price"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
}

// Catalog is an immutable, ordered set of packages
type Catalog struct {
	packages []Package
	byCode   map[string]Package
}

// Load reads the catalog from path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	data := defaultPackages
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read packages file: %w", err)
		}
	}
	return Parse(data)
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(defaultPackages)
	if err != nil {
		panic(fmt.Sprintf("embedded packages.yaml is invalid: %v", err))
	}
	return c
}

// Parse decodes a packages YAML document
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("packages file is empty")
	}

	var file packagesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal packages yaml: %w", err)
	}

	c := &Catalog{byCode: make(map[string]Package, len(file.Packages))}
	for i, entry := range file.Packages {
		code := strings.ToUpper(strings.TrimSpace(entry.Code))
		if code == "" {
			return nil, fmt.Errorf("packages[%d]: code is required", i)
		}
		if entry.Price <= 0 {
			return nil, fmt.Errorf("packages[%d]: price must be positive", i)
		}
		if _, dup := c.byCode[code]; dup {
			return nil, fmt.Errorf("packages[%d]: duplicate code %s", i, code)
		}

		pkg := Package{
			Code:        code,
			Name:        entry.Name,
			Price:       decimal.NewFromInt(entry.Price),
			Description: entry.Description,
			Features:    entry.Features,
		}
		c.packages = append(c.packages, pkg)
		c.byCode[code] = pkg
	}

	return c, nil
}

// List returns every package in catalog order
func (c *Catalog) List() []Package {
	out := make([]Package, len(c.packages))
	copy(out, c.packages)
	return out
}

// Get looks up a package by code
func (c *Catalog) Get(code string) (Package, bool) {
	pkg, ok := c.byCode[code]
	return pkg, ok
}

// PricePerPerson sums the prices of the given package codes
func (c *Catalog) PricePerPerson(codes []string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, code := range codes {
		pkg, ok := c.byCode[code]
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown package %q", code)
		}
		total = total.Add(pkg.Price)
	}
	return total, nil
}
