package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsight/internal/catalog"
)

const productsCSV = `id,name,description,price,category,brand,rating,in_stock
1,Trail Shoe,Lightweight running shoe,120,Footwear,Stride,4.8,true
2,Desk Lamp,LED lamp,25,Home Office,Lumo,3.9,false
3,Office Chair,Ergonomic chair,180,Home Office,Lumo,4.5,true
`

func newToolbox(t *testing.T, content string) *Toolbox {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return New(catalog.NewStore(path))
}

func TestCallSearch(t *testing.T) {
	tb := newToolbox(t, productsCSV)
	ctx := context.Background()

	out := tb.Call(ctx, SearchProducts, `{"query":"shoe"}`)
	assert.Contains(t, out, "Found 1 products")
	assert.Contains(t, out, "Trail Shoe")

	out = tb.Call(ctx, SearchProducts, `{"category":"home office","in_stock_only":false,"sort_by":"price_high"}`)
	assert.Contains(t, out, "Found 2 products")
	assert.Less(t, strings.Index(out, "Office Chair"), strings.Index(out, "Desk Lamp"))

	out = tb.Call(ctx, SearchProducts, "")
	assert.Contains(t, out, "Found 2 products")

	assert.Equal(t, "No products found matching your criteria.", tb.Call(ctx, SearchProducts, `{"query":"piano"}`))
}

func TestCallDetailsAndStock(t *testing.T) {
	tb := newToolbox(t, productsCSV)
	ctx := context.Background()

	assert.Contains(t, tb.Call(ctx, GetProductDetails, `{"product_id":2}`), "Name: Desk Lamp")
	assert.Contains(t, tb.Call(ctx, GetProductDetails, `{"product_id":"3"}`), "Name: Office Chair")
	assert.Equal(t, "No product found with ID 9.", tb.Call(ctx, GetProductDetails, `{"product_id":9}`))
	assert.Contains(t, tb.Call(ctx, CheckStock, `{"product_id":2.0}`), "out of stock")
	assert.Contains(t, tb.Call(ctx, CheckStock, `{"product_id":2.5}`), "Error running check_stock")
}

func TestCallListingTools(t *testing.T) {
	tb := newToolbox(t, productsCSV)
	ctx := context.Background()

	assert.Equal(t, "We have 2 product categories:\n- Footwear: 1 products\n- Home Office: 2 products",
		tb.Call(ctx, ListProductCategories, `{}`))
	assert.Contains(t, tb.Call(ctx, GetCategoryProducts, `{"category":"Home Office"}`), "Desk Lamp")
	assert.Contains(t, tb.Call(ctx, GetBrandProducts, `{"brand":"stride"}`), "Trail Shoe")
	assert.Contains(t, tb.Call(ctx, GetCategoryProducts, `{"category":" "}`), "category is required")
}

func TestCallRecommend(t *testing.T) {
	tb := newToolbox(t, productsCSV)
	ctx := context.Background()

	out := tb.Call(ctx, RecommendProducts, `{"query":"","budget":150}`)
	assert.Contains(t, out, "within your $150.00 budget")
	assert.Contains(t, out, "Trail Shoe")
	assert.NotContains(t, out, "Office Chair")
	assert.NotContains(t, out, "Desk Lamp")
}

func TestCallNotLoaded(t *testing.T) {
	tb := New(catalog.NewStore(filepath.Join(t.TempDir(), "missing.csv")))
	ctx := context.Background()

	assert.Equal(t, notLoaded, tb.Call(ctx, ListProductCategories, ""))
	assert.Equal(t, notLoaded, tb.Call(ctx, GetCategoryProducts, `{"category":"x"}`))
	assert.Equal(t, "No products found matching your criteria.", tb.Call(ctx, SearchProducts, `{}`))
	assert.Equal(t, "No product found with ID 1.", tb.Call(ctx, GetProductDetails, `{"product_id":1}`))
}

func TestCallErrors(t *testing.T) {
	tb := newToolbox(t, productsCSV)

	assert.Equal(t, `Unknown tool "delete_everything".`, tb.Call(context.Background(), "delete_everything", `{}`))
	assert.Contains(t, tb.Call(context.Background(), SearchProducts, `{not json`), "invalid arguments")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Contains(t, tb.Call(ctx, SearchProducts, `{}`), "context canceled")
}

func TestProductIDArgs(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: `{"product_id":7}`, want: 7},
		{in: `{"product_id":7.0}`, want: 7},
		{in: `{"product_id":"7"}`, want: 7},
		{in: `{"product_id":" 12 "}`, want: 12},
		{in: `{"product_id":7.5}`, wantErr: true},
		{in: `{"product_id":"abc"}`, wantErr: true},
		{in: `{"product_id":null}`, wantErr: true},
		{in: `{}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var args ProductIDArgs
			err := decode(tt.in, &args)
			var id int64
			if err == nil {
				id, err = args.ID()
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestCallMissingProductID(t *testing.T) {
	tb := newToolbox(t, productsCSV)
	ctx := context.Background()

	assert.Equal(t, "Error running get_product_details: product_id is required", tb.Call(ctx, GetProductDetails, `{}`))
	assert.Equal(t, "Error running check_stock: product_id is required", tb.Call(ctx, CheckStock, ""))
}

func TestSelectAlwaysIncludesRequired(t *testing.T) {
	names := func(active []string) []string {
		var out []string
		for _, tool := range Select(active) {
			out = append(out, tool.Function.Name)
		}
		return out
	}

	assert.Equal(t, []string{SearchProducts, GetProductDetails, ListProductCategories}, names(nil))
	assert.Equal(t,
		[]string{SearchProducts, GetProductDetails, CheckStock, ListProductCategories},
		names([]string{CheckStock, "bogus"}))
	assert.Equal(t, Names(), names(Names()))

	assert.True(t, Enabled(nil, SearchProducts))
	assert.False(t, Enabled(nil, CheckStock))
	assert.True(t, Enabled([]string{CheckStock}, CheckStock))
}

func TestSearchArgsDefaults(t *testing.T) {
	f := SearchArgs{}.Filters()
	assert.True(t, f.InStockOnly)
	assert.Equal(t, catalog.SortPriceLow, f.SortBy)

	no := false
	f = SearchArgs{InStockOnly: &no, SortBy: "rating", Category: " Footwear "}.Filters()
	assert.False(t, f.InStockOnly)
	assert.Equal(t, catalog.SortRating, f.SortBy)
	assert.Equal(t, "Footwear", f.Category)
}
