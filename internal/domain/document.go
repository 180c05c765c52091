package domain

import "encoding/json"

// Document is the single aggregate persisted as one unit: it is loaded once,
// mutated in memory and rewritten wholesale on every commit.
type Document struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Sales      []Sale     `json:"sales"`
	// Cart is transient front-end state; it is carried through rewrites untouched.
	Cart []json.RawMessage `json:"cart"`
}

// NewDocument returns an empty, structurally complete document.
func NewDocument() Document {
	return Document{
		Products:   []Product{},
		Categories: []Category{},
		Sales:      []Sale{},
		Cart:       []json.RawMessage{},
	}
}

// Clone returns a deep copy that shares no slices with d.
func (d Document) Clone() Document {
	out := Document{
		Products:   append(make([]Product, 0, len(d.Products)), d.Products...),
		Categories: append(make([]Category, 0, len(d.Categories)), d.Categories...),
		Sales:      make([]Sale, 0, len(d.Sales)),
		Cart:       make([]json.RawMessage, 0, len(d.Cart)),
	}
	for _, s := range d.Sales {
		s.Items = append(make([]SaleItem, 0, len(s.Items)), s.Items...)
		out.Sales = append(out.Sales, s)
	}
	for _, raw := range d.Cart {
		out.Cart = append(out.Cart, append(json.RawMessage(nil), raw...))
	}
	return out
}
