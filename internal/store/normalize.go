package store

import (
	"encoding/json"

	"pos_service/internal/domain"
)

// Normalize fills every absent collection with an empty one. It is the only
// shape fix-up applied to documents read from storage and is idempotent.
func Normalize(doc domain.Document) domain.Document {
	if doc.Products == nil {
		doc.Products = []domain.Product{}
	}
	if doc.Categories == nil {
		doc.Categories = []domain.Category{}
	}
	if doc.Sales == nil {
		doc.Sales = []domain.Sale{}
	}
	if doc.Cart == nil {
		doc.Cart = []json.RawMessage{}
	}
	for i := range doc.Sales {
		if doc.Sales[i].Items == nil {
			doc.Sales[i].Items = []domain.SaleItem{}
		}
	}
	return doc
}

// Decode parses a serialized document and normalizes it.
func Decode(data []byte) (domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, err
	}
	return Normalize(doc), nil
}

// Encode serializes a document in the on-disk layout.
func Encode(doc domain.Document) ([]byte, error) {
	return json.MarshalIndent(Normalize(doc), "", "  ")
}
