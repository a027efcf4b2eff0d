// Package tools exposes the catalog to the LLM agent as callable functions.
// Every call returns display text; failures become text too.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shopsight/internal/catalog"
	"shopsight/internal/format"
	"shopsight/internal/logging"
	"shopsight/internal/observability"
)

const (
	SearchProducts        = "search_products"
	GetProductDetails     = "get_product_details"
	CheckStock            = "check_stock"
	ListProductCategories = "list_product_categories"
	GetCategoryProducts   = "get_category_products"
	GetBrandProducts      = "get_brand_products"
	RecommendProducts     = "recommend_products"
)

// Required tools are offered to the model even when not enabled by the user.
var Required = []string{SearchProducts, GetProductDetails, ListProductCategories}

const notLoaded = "Product data not loaded yet. Please try again shortly."

type SearchArgs struct {
	Query       string   `json:"query"`
	MinPrice    *float64 `json:"min_price"`
	MaxPrice    *float64 `json:"max_price"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	RatingMin   *float64 `json:"rating_min"`
	InStockOnly *bool    `json:"in_stock_only"`
	SortBy      string   `json:"sort_by"`
}

// Filters converts the tool arguments into catalog filters, applying the
// search defaults for anything the model left out.
func (a SearchArgs) Filters() catalog.Filters {
	f := catalog.NewFilters()
	f.MinPrice = a.MinPrice
	f.MaxPrice = a.MaxPrice
	f.Category = strings.TrimSpace(a.Category)
	f.Brand = strings.TrimSpace(a.Brand)
	f.RatingMin = a.RatingMin
	if a.InStockOnly != nil {
		f.InStockOnly = *a.InStockOnly
	}
	if a.SortBy != "" {
		f.SortBy = catalog.SortBy(a.SortBy)
	}
	return f
}

type ProductIDArgs struct {
	ProductID *ProductID `json:"product_id"`
}

// ID returns the requested product id, or an error when it is missing.
func (a ProductIDArgs) ID() (int64, error) {
	if a.ProductID == nil {
		return 0, errors.New("product_id is required")
	}
	return int64(*a.ProductID), nil
}

type CategoryArgs struct {
	Category string `json:"category"`
}

type BrandArgs struct {
	Brand string `json:"brand"`
}

type RecommendArgs struct {
	Query  string   `json:"query"`
	Budget *float64 `json:"budget"`
}

// Toolbox runs tools against the catalog held by a store.
type Toolbox struct {
	store *catalog.Store
}

func New(store *catalog.Store) *Toolbox {
	return &Toolbox{store: store}
}

// Call runs the named tool with JSON-encoded arguments.
func (t *Toolbox) Call(ctx context.Context, name, args string) (out string) {
	logger := logging.Component("tools")
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("tool", name).Interface("panic", r).Msg("tool panicked")
			out = fmt.Sprintf("Error running %s: internal error", name)
			status = "panic"
		}
		observability.ToolCallsTotal.WithLabelValues(name, status).Inc()
	}()

	if err := ctx.Err(); err != nil {
		status = "canceled"
		return fmt.Sprintf("Error running %s: %v", name, err)
	}
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	logger.Debug().Str("tool", name).Str("args", args).Msg("tool call")

	var err error
	switch name {
	case SearchProducts:
		out, err = t.search(args)
	case GetProductDetails:
		out, err = t.details(args)
	case CheckStock:
		out, err = t.checkStock(args)
	case ListProductCategories:
		out = t.listCategories()
	case GetCategoryProducts:
		out, err = t.categoryProducts(args)
	case GetBrandProducts:
		out, err = t.brandProducts(args)
	case RecommendProducts:
		out, err = t.recommend(args)
	default:
		status = "unknown"
		return fmt.Sprintf("Unknown tool %q.", name)
	}
	if err != nil {
		status = "error"
		logger.Warn().Err(err).Str("tool", name).Msg("tool failed")
		return fmt.Sprintf("Error running %s: %v", name, err)
	}
	return out
}

func (t *Toolbox) search(raw string) (string, error) {
	var args SearchArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	c, _ := t.store.Catalog()
	f := args.Filters()
	observability.SearchesTotal.WithLabelValues(string(f.SortBy)).Inc()
	return format.SearchResults(catalog.Search(c, args.Query, f), f), nil
}

func (t *Toolbox) details(raw string) (string, error) {
	var args ProductIDArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	id, err := args.ID()
	if err != nil {
		return "", err
	}
	c, _ := t.store.Catalog()
	p, ok := catalog.GetByID(c, id)
	if !ok {
		return format.NotFound(id), nil
	}
	return format.Details(p), nil
}

func (t *Toolbox) checkStock(raw string) (string, error) {
	var args ProductIDArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	id, err := args.ID()
	if err != nil {
		return "", err
	}
	c, _ := t.store.Catalog()
	p, ok := catalog.GetByID(c, id)
	if !ok {
		return format.NotFound(id), nil
	}
	return format.StockStatus(p), nil
}

func (t *Toolbox) listCategories() string {
	c, err := t.store.Catalog()
	if err != nil {
		return notLoaded
	}
	return format.CategoryCounts(catalog.ListCategories(c))
}

func (t *Toolbox) categoryProducts(raw string) (string, error) {
	var args CategoryArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	c, err := t.store.Catalog()
	if err != nil {
		return notLoaded, nil
	}
	category := strings.TrimSpace(args.Category)
	if category == "" {
		return "", fmt.Errorf("category is required")
	}
	return format.CategoryProducts(category, catalog.GetByCategory(c, category)), nil
}

func (t *Toolbox) brandProducts(raw string) (string, error) {
	var args BrandArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	c, err := t.store.Catalog()
	if err != nil {
		return notLoaded, nil
	}
	brand := strings.TrimSpace(args.Brand)
	if brand == "" {
		return "", fmt.Errorf("brand is required")
	}
	return format.BrandProducts(brand, catalog.GetByBrand(c, brand)), nil
}

func (t *Toolbox) recommend(raw string) (string, error) {
	var args RecommendArgs
	if err := decode(raw, &args); err != nil {
		return "", err
	}
	c, _ := t.store.Catalog()
	f := catalog.NewFilters()
	f.MaxPrice = args.Budget
	f.SortBy = catalog.SortRating
	observability.SearchesTotal.WithLabelValues(string(f.SortBy)).Inc()
	return format.Recommendations(args.Query, args.Budget, catalog.Search(c, args.Query, f)), nil
}

func decode(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
