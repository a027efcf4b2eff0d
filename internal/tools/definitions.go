package tools

import (
	"slices"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var definitions = []openai.FunctionDefinition{
	{
		Name: SearchProducts,
		Description: "Search for products based on a query string, price range, category, brand, rating, stock status, and sort order. " +
			"If query is empty, searches based only on the other filters. Use this for nearly all product finding requests.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query":         {Type: jsonschema.String, Description: "Text matched against product names and descriptions"},
				"min_price":     {Type: jsonschema.Number, Description: "Minimum price, inclusive"},
				"max_price":     {Type: jsonschema.Number, Description: "Maximum price, inclusive"},
				"category":      {Type: jsonschema.String, Description: "Category to filter by"},
				"brand":         {Type: jsonschema.String, Description: "Brand to filter by"},
				"rating_min":    {Type: jsonschema.Number, Description: "Minimum rating, 1.0-5.0"},
				"in_stock_only": {Type: jsonschema.Boolean, Description: "Only show in-stock items (default true)"},
				"sort_by": {
					Type:        jsonschema.String,
					Enum:        []string{"price_low", "price_high", "rating", "newest"},
					Description: "Sort order (default price_low)",
				},
			},
		},
	},
	{
		Name:        GetProductDetails,
		Description: "Get detailed information about a specific product by its ID.",
		Parameters:  productIDSchema("The ID of the product to look up"),
	},
	{
		Name:        CheckStock,
		Description: "Check if a product is in stock. Use only when explicitly asked about stock for a specific ID.",
		Parameters:  productIDSchema("The ID of the product to check stock for"),
	},
	{
		Name:        ListProductCategories,
		Description: "Get a list of all product categories available in the store, with product counts.",
		Parameters:  jsonschema.Definition{Type: jsonschema.Object, Properties: map[string]jsonschema.Definition{}},
	},
	{
		Name:        GetCategoryProducts,
		Description: "Get all products in a specific category. Prefer search_products if other filters are involved.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"category": {Type: jsonschema.String, Description: "The category to get products for"},
			},
			Required: []string{"category"},
		},
	},
	{
		Name:        GetBrandProducts,
		Description: "Get all products from a specific brand. Prefer search_products if other filters are involved.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"brand": {Type: jsonschema.String, Description: "The brand to get products for"},
			},
			Required: []string{"brand"},
		},
	},
	{
		Name:        RecommendProducts,
		Description: "Recommend products based on user needs or preferences, highest rated first.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query":  {Type: jsonschema.String, Description: "Description of what the user is looking for"},
				"budget": {Type: jsonschema.Number, Description: "Optional maximum budget"},
			},
			Required: []string{"query"},
		},
	},
}

func productIDSchema(desc string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"product_id": {Type: jsonschema.Integer, Description: desc},
		},
		Required: []string{"product_id"},
	}
}

// Names lists every tool name in definition order.
func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// Select returns the definitions of the active tools plus the required ones.
// Unknown names are ignored.
func Select(active []string) []openai.Tool {
	enabled := make(map[string]bool, len(active)+len(Required))
	for _, name := range active {
		enabled[name] = true
	}
	for _, name := range Required {
		enabled[name] = true
	}

	var out []openai.Tool
	for i := range definitions {
		if enabled[definitions[i].Name] {
			out = append(out, openai.Tool{Type: openai.ToolTypeFunction, Function: &definitions[i]})
		}
	}
	return out
}

// Enabled reports whether name is among the tools offered by Select(active).
func Enabled(active []string, name string) bool {
	return slices.Contains(active, name) || slices.Contains(Required, name)
}
