package catalog

import (
	"sort"

	"shopsight/internal/model"
)

// GetByID returns the product with the given id. The boolean is false when
// no such product exists.
func GetByID(c *Catalog, id int64) (model.Product, bool) {
	if c.Len() == 0 {
		return model.Product{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, false
	}
	return c.products[i].Clone(), true
}

// ListCategories counts products per category.
func ListCategories(c *Catalog) map[string]int {
	counts := make(map[string]int)
	if c == nil {
		return counts
	}
	for _, p := range c.products {
		counts[p.Category]++
	}
	return counts
}

// Categories returns the distinct category names, sorted.
func Categories(c *Catalog) []string {
	counts := ListCategories(c)
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetByCategory lists every product of a category, cheapest first. Stock is
// ignored so browsing shows the full assortment.
func GetByCategory(c *Catalog, category string) []model.Product {
	return Search(c, "", Filters{Category: category, SortBy: SortPriceLow})
}

// GetByBrand lists every product of a brand, cheapest first, ignoring stock.
// A catalog without a brand column has no products of any brand.
func GetByBrand(c *Catalog, brand string) []model.Product {
	if !c.HasColumn(ColBrand) {
		return []model.Product{}
	}
	return Search(c, "", Filters{Brand: brand, SortBy: SortPriceLow})
}
