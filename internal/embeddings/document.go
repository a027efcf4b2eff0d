package embeddings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"shopsight/internal/model"
)

// PlainText strips markup from s. Text without tags is returned trimmed.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Document builds the text embedded for a product: name, description and
// price first, then every other attribute the product has.
func Document(p model.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s Description: %s Price: $%.2f", p.Name, PlainText(p.Description), p.Price)
	if p.Category != "" {
		sb.WriteString(" category: " + p.Category)
	}
	if p.Brand != "" {
		sb.WriteString(" brand: " + p.Brand)
	}
	if p.Rating != nil {
		fmt.Fprintf(&sb, " rating: %.1f", *p.Rating)
	}
	if p.InStock != nil {
		fmt.Fprintf(&sb, " in_stock: %t", *p.InStock)
	}

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" " + k + ": " + PlainText(p.Extra[k]))
	}
	return sb.String()
}

// RawDocument stages p for embedding.
func RawDocument(p model.Product) model.RawDocument {
	return model.RawDocument{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Category:  p.Category,
		Brand:     p.Brand,
		Price:     p.Price,
		Content:   Document(p),
	}
}
