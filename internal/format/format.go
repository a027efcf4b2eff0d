// Package format renders catalog results as plain text for the agent.
// Optional attributes that a product lacks are left out of the text.
package format

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shopsight/internal/catalog"
	"shopsight/internal/model"
)

const (
	// DisplayLimit caps category and brand listings.
	DisplayLimit = 20
	// RecommendLimit caps recommendation lists.
	RecommendLimit = 5
)

var sortDescriptions = map[catalog.SortBy]string{
	catalog.SortPriceLow:  "sorted by price: low to high",
	catalog.SortPriceHigh: "sorted by price: high to low",
	catalog.SortRating:    "sorted by rating",
	catalog.SortNewest:    "sorted by newest",
}

// ProductLine renders a one-line summary of p.
func ProductLine(p model.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d, Name: %s, Price: $%.2f, Category: %s", p.ID, p.Name, p.Price, p.Category)
	if p.Brand != "" {
		sb.WriteString(", Brand: " + p.Brand)
	}
	if p.Rating != nil {
		fmt.Fprintf(&sb, ", Rating: %.1f/5", *p.Rating)
	}
	if p.InStock != nil {
		sb.WriteString(", Status: " + stockLabel(*p.InStock))
	}
	return sb.String()
}

// ShortLine renders id, name, price and rating only.
func ShortLine(p model.Product) string {
	line := fmt.Sprintf("ID: %d, Name: %s, Price: $%.2f", p.ID, p.Name, p.Price)
	if p.Rating != nil {
		line += fmt.Sprintf(", Rating: %.1f/5", *p.Rating)
	}
	return line
}

// SearchSummary describes the active filters and the number of results.
func SearchSummary(count int, f catalog.Filters) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d products", count)
	if f.Category != "" {
		fmt.Fprintf(&sb, " in the %s category", f.Category)
	}
	if f.Brand != "" {
		fmt.Fprintf(&sb, " from the %s brand", f.Brand)
	}
	switch {
	case f.MinPrice != nil && f.MaxPrice != nil:
		fmt.Fprintf(&sb, " priced between $%.2f and $%.2f", *f.MinPrice, *f.MaxPrice)
	case f.MinPrice != nil:
		fmt.Fprintf(&sb, " priced above $%.2f", *f.MinPrice)
	case f.MaxPrice != nil:
		fmt.Fprintf(&sb, " priced below $%.2f", *f.MaxPrice)
	}
	if f.RatingMin != nil {
		fmt.Fprintf(&sb, " with minimum rating %.1f", *f.RatingMin)
	}
	if f.InStockOnly {
		sb.WriteString(" (in stock)")
	}
	if desc, ok := sortDescriptions[f.SortBy]; ok {
		sb.WriteString(", " + desc)
	}
	return sb.String()
}

// SearchResults renders the summary followed by one line per product.
func SearchResults(products []model.Product, f catalog.Filters) string {
	if len(products) == 0 {
		return "No products found matching your criteria."
	}
	lines := make([]string, len(products))
	for i, p := range products {
		lines[i] = ProductLine(p)
	}
	return SearchSummary(len(products), f) + ":\n\n" + strings.Join(lines, "\n")
}

// Details renders every known attribute of p, one per line.
func Details(p model.Product) string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Name", p.Name)
	add("Description", p.Description)
	lines = append(lines, fmt.Sprintf("Price: $%.2f", p.Price))
	add("Category", p.Category)
	add("Brand", p.Brand)
	if p.Rating != nil {
		lines = append(lines, fmt.Sprintf("Rating: %.1f/5", *p.Rating))
	}
	if p.InStock != nil {
		answer := "No"
		if *p.InStock {
			answer = "Yes"
		}
		lines = append(lines, "In Stock: "+answer)
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		add(title(k), p.Extra[k])
	}
	return strings.Join(lines, "\n")
}

// StockStatus answers whether p can be bought right now.
func StockStatus(p model.Product) string {
	switch {
	case p.InStock == nil:
		return fmt.Sprintf("Stock information not available for product %d (%s).", p.ID, p.Name)
	case *p.InStock:
		return fmt.Sprintf("Product %d (%s) is in stock. 👍", p.ID, p.Name)
	default:
		return fmt.Sprintf("Product %d (%s) is currently out of stock. 😞", p.ID, p.Name)
	}
}

// CategoryCounts lists categories alphabetically with their product counts.
func CategoryCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "No product categories found."
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{fmt.Sprintf("We have %d product categories:", len(counts))}
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("- %s: %d products", name, counts[name]))
	}
	return strings.Join(lines, "\n")
}

// CategoryProducts lists up to DisplayLimit products of a category.
func CategoryProducts(category string, products []model.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products found in the '%s' category. Perhaps try searching all categories or use the filters?", category)
	}
	return fmt.Sprintf("Products in the '%s' category:\n\n", category) + capped(products, ShortLine)
}

// BrandProducts lists up to DisplayLimit products of a brand.
func BrandProducts(brand string, products []model.Product) string {
	if len(products) == 0 {
		return fmt.Sprintf("No products found from the '%s' brand.", brand)
	}
	return fmt.Sprintf("Products from the '%s' brand:\n\n", brand) + capped(products, ShortLine)
}

// Recommendations renders the top RecommendLimit products for a request.
func Recommendations(query string, budget *float64, products []model.Product) string {
	if len(products) == 0 {
		return "I couldn't find specific recommendations based on that. Maybe try broadening your search?"
	}
	if len(products) > RecommendLimit {
		products = products[:RecommendLimit]
	}
	lines := make([]string, len(products))
	for i, p := range products {
		line := fmt.Sprintf("ID: %d, Name: %s, Price: $%.2f, Category: %s", p.ID, p.Name, p.Price, p.Category)
		if p.Rating != nil {
			line += fmt.Sprintf(", Rating: %.1f/5", *p.Rating)
		}
		lines[i] = line
	}
	budgetText := ""
	if budget != nil {
		budgetText = fmt.Sprintf(" within your $%.2f budget", *budget)
	}
	return fmt.Sprintf("Here are my top recommendations%s based on '%s':\n\n%s", budgetText, query, strings.Join(lines, "\n"))
}

// NotFound is the reply for an unknown product id.
func NotFound(id int64) string {
	return fmt.Sprintf("No product found with ID %d.", id)
}

func capped(products []model.Product, line func(model.Product) string) string {
	shown := products
	if len(shown) > DisplayLimit {
		shown = shown[:DisplayLimit]
	}
	lines := make([]string, len(shown))
	for i, p := range shown {
		lines[i] = line(p)
	}
	out := strings.Join(lines, "\n")
	if len(products) > DisplayLimit {
		out += fmt.Sprintf("\n... (showing top %d results)", DisplayLimit)
	}
	return out
}

func stockLabel(in bool) string {
	if in {
		return "In Stock"
	}
	return "Out of Stock"
}

// title turns a column name like "screen_size" into "Screen Size".
func title(col string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(col, "_", " "))
}
