package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"shopsight/internal/logging"
	"shopsight/internal/model"
)

// SortBy selects the order of search results.
type SortBy string

const (
	SortPriceLow  SortBy = "price_low"
	SortPriceHigh SortBy = "price_high"
	SortRating    SortBy = "rating"
	SortNewest    SortBy = "newest" // higher id = added later
)

// Valid reports whether s is one of the known sort orders.
func (s SortBy) Valid() bool {
	switch s {
	case SortPriceLow, SortPriceHigh, SortRating, SortNewest:
		return true
	}
	return false
}

// Filters are combined with AND. Nil bounds and empty strings are not applied.
type Filters struct {
	MinPrice    *float64
	MaxPrice    *float64
	Category    string
	Brand       string
	RatingMin   *float64
	InStockOnly bool
	SortBy      SortBy
}

// NewFilters returns the defaults used by the search tool: in-stock only,
// cheapest first.
func NewFilters() Filters {
	return Filters{InStockOnly: true, SortBy: SortPriceLow}
}

// Search returns copies of the products matching query and f, ordered by f.SortBy.
// An empty or blank query matches every product. Price and rating bounds are
// inclusive; products with unknown rating or stock never pass those filters.
func Search(c *Catalog, query string, f Filters) []model.Product {
	if c.Len() == 0 {
		return []model.Product{}
	}

	category := fold(f.Category)
	brand := ""
	if c.HasColumn(ColBrand) {
		brand = fold(f.Brand)
	}
	needle := fold(strings.TrimSpace(query))

	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		if category != "" && fold(p.Category) != category {
			continue
		}
		if brand != "" && fold(p.Brand) != brand {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if f.RatingMin != nil && (p.Rating == nil || *p.Rating < *f.RatingMin) {
			continue
		}
		if f.InStockOnly && !p.Available() {
			continue
		}
		if needle != "" && !strings.Contains(fold(p.Name), needle) && !strings.Contains(fold(p.Description), needle) {
			continue
		}
		out = append(out, p.Clone())
	}

	sortProducts(out, f.SortBy)
	return out
}

// sortProducts orders in place. Empty and unknown orders keep the catalog order.
func sortProducts(products []model.Product, by SortBy) {
	switch by {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			switch {
			case a.Rating == nil && b.Rating == nil:
				return 0
			case a.Rating == nil:
				return 1
			case b.Rating == nil:
				return -1
			}
			return cmp.Compare(*b.Rating, *a.Rating)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b model.Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	case "":
	default:
		logger := logging.Component("catalog")
		logger.Warn().Str("sort_by", string(by)).Msg("unknown sort order, keeping catalog order")
	}
}

// fold returns s in Unicode case-folded form for caseless comparison.
// A Caser is stateful, so each call gets its own.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}
