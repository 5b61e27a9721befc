package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Catalog is an immutable view over the product collection. It is loaded
// once at startup and never mutated, so it needs no synchronization.
type Catalog struct {
	products []Product
	byID     map[int]Product
	steps    StepTable
}

// New builds a catalog from an already-decoded product list.
func New(products []Product, steps StepTable) *Catalog {
	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID, steps: steps}
}

// LoadFile reads a JSON array of products from path.
func LoadFile(path string, steps StepTable) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", path, err)
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", path, err)
	}
	return New(products, steps), nil
}

// All returns every product in catalog order.
func (c *Catalog) All() []Product {
	return c.products
}

// ByID returns the product with the given id, if present.
func (c *Catalog) ByID(id int) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// stepsFor resolves the step table for a product: its own VariantSteps when
// set, otherwise the catalog-wide table.
func (c *Catalog) stepsFor(p Product) StepTable {
	if len(p.VariantSteps) > 0 {
		return p.VariantSteps
	}
	return c.steps
}

// PriceFor quotes the price of one variant selection of p.
func (c *Catalog) PriceFor(p Product, selection map[string]string) int64 {
	return c.stepsFor(p).Quote(p.Price, p.Variants, selection)
}

// FromPrice is the minimum price across all variant selections of p.
func (c *Catalog) FromPrice(p Product) int64 {
	return c.stepsFor(p).MinQuote(p.Price, p.Variants)
}
