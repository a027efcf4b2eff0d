// Package catalog loads the product file into an immutable in-memory table and
// answers the search and lookup queries the agent tools are built on.
package catalog

import "shopsight/internal/model"

// Canonical column names.
const (
	ColID          = "id"
	ColName        = "name"
	ColDescription = "description"
	ColPrice       = "price"
	ColCategory    = "category"
	ColBrand       = "brand"
	ColRating      = "rating"
	ColInStock     = "in_stock"
)

// columnAliases maps source header names onto canonical ones.
var columnAliases = map[string]string{
	"product_id": ColID,
}

var requiredColumns = []string{ColID, ColName, ColPrice, ColCategory}

// minimalColumns is the column set of an empty catalog produced by a failed load.
var minimalColumns = []string{ColID, ColName, ColPrice, ColCategory, ColDescription, ColBrand, ColRating}

// LoadStats counts what happened to the source rows during a load.
type LoadStats struct {
	RowsRead     int
	RowsKept     int
	RowsDropped  int
	LinesSkipped int
}

// Catalog is an ordered, read-only collection of products.
// A Catalog is never mutated after Load returns it.
type Catalog struct {
	products []model.Product
	byID     map[int64]int
	columns  map[string]bool
	Stats    LoadStats
}

func newCatalog(columns []string, products []model.Product) *Catalog {
	c := &Catalog{
		products: products,
		byID:     make(map[int64]int, len(products)),
		columns:  make(map[string]bool, len(columns)),
	}
	for _, col := range columns {
		c.columns[col] = true
	}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

// Empty returns a catalog with no products and the minimal column set.
func Empty() *Catalog {
	return newCatalog(minimalColumns, nil)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.products)
}

// HasColumn reports whether the source carried the given canonical column.
func (c *Catalog) HasColumn(name string) bool {
	if c == nil {
		return false
	}
	return c.columns[name]
}

// Products returns copies of the records in source order.
func (c *Catalog) Products() []model.Product {
	if c == nil {
		return nil
	}
	out := make([]model.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}
