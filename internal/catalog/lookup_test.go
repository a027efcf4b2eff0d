package catalog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByID(t *testing.T) {
	c := mustParse(t, sampleCSV)

	p, ok := GetByID(c, 2)
	assert.True(t, ok)
	assert.Equal(t, "Desk Lamp", p.Name)

	_, ok = GetByID(c, 99)
	assert.False(t, ok)
}

func TestListCategories(t *testing.T) {
	c := mustParse(t, sampleCSV)

	assert.Equal(t, map[string]int{"Footwear": 2, "Home Office": 2}, ListCategories(c))
	assert.Equal(t, []string{"Footwear", "Home Office"}, Categories(c))
	assert.Empty(t, ListCategories(Empty()))
}

func TestGetByCategoryIgnoresStock(t *testing.T) {
	c := mustParse(t, sampleCSV)

	assert.Equal(t, []int64{2, 3}, ids(GetByCategory(c, "home office")))
	assert.Empty(t, GetByCategory(c, "Garden"))
}

func TestGetByBrand(t *testing.T) {
	c := mustParse(t, sampleCSV)
	assert.Equal(t, []int64{4, 1}, ids(GetByBrand(c, "Stride")))
}

func TestGetByBrandWithoutBrandColumn(t *testing.T) {
	c := mustParse(t, scenarioCSV)

	got := GetByBrand(c, "Nonexistent")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReturnedProductsDoNotAliasCatalog(t *testing.T) {
	c := mustParse(t, "id,name,price,category,rating,in_stock,color\n1,Shoe,10,A,4.5,true,red\n")

	found := Search(c, "", Filters{})
	require.Len(t, found, 1)
	*found[0].Rating = 0
	*found[0].InStock = false
	found[0].Extra["color"] = "blue"

	p, _ := GetByID(c, 1)
	*p.Rating = 1

	listed := c.Products()
	listed[0].Extra["size"] = "XL"

	p, ok := GetByID(c, 1)
	require.True(t, ok)
	assert.Equal(t, 4.5, *p.Rating)
	assert.True(t, *p.InStock)
	assert.Equal(t, map[string]string{"color": "red"}, p.Extra)
}

func TestProductsReturnsCopy(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,name,price,category\n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&sb, "%d,P%d,%d,C\n", i, i, i)
	}
	c := mustParse(t, sb.String())

	products := c.Products()
	products[0].Name = "changed"

	p, _ := GetByID(c, 1)
	assert.Equal(t, "P1", p.Name)
}
