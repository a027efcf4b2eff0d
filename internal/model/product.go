package model

// Product is a normalized catalog record.
// Optional numeric and boolean attributes are pointers: nil means the source
// had no usable value.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	Brand       string
	Rating      *float64
	InStock     *bool // nil when the source has no in_stock column
	Extra       map[string]string
}

// Available reports whether the record is known to be in stock.
// Unknown stock counts as not in stock.
func (p Product) Available() bool {
	return p.InStock != nil && *p.InStock
}

// Clone returns a copy of p that shares no pointers or maps with it.
func (p Product) Clone() Product {
	if p.Rating != nil {
		r := *p.Rating
		p.Rating = &r
	}
	if p.InStock != nil {
		in := *p.InStock
		p.InStock = &in
	}
	if p.Extra != nil {
		extra := make(map[string]string, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = v
		}
		p.Extra = extra
	}
	return p
}

// RawDocument is the staged text of a product waiting to be embedded.
type RawDocument struct {
	ID        string
	ProductID int64
	Category  string
	Brand     string
	Price     float64
	Content   string
}

// ChatMessage is one turn of a chat session.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
