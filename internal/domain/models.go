package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID string          `json:"categoryId,omitempty"` // weak reference, not enforced
	Image      string          `json:"image,omitempty"`
}

// UnmarshalJSON accepts numeric ids for the product and its category.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	var raw struct {
		plain
		ID         looseID `json:"id"`
		CategoryID looseID `json:"categoryId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Product(raw.plain)
	p.ID = string(raw.ID)
	p.CategoryID = string(raw.CategoryID)
	return nil
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// UnmarshalJSON treats an absent is_active as true, the default for categories
// written before the flag existed. Numeric ids are accepted.
func (c *Category) UnmarshalJSON(data []byte) error {
	type plain Category
	var raw struct {
		plain
		ID       looseID `json:"id"`
		IsActive *bool   `json:"is_active"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Category(raw.plain)
	c.ID = string(raw.ID)
	c.IsActive = raw.IsActive == nil || *raw.IsActive
	return nil
}

// Sale is immutable once recorded. Items are a frozen copy of product data at
// sale time, so later catalog edits or deletes never change history.
type Sale struct {
	ID    string          `json:"id"`
	Date  time.Time       `json:"date"`
	Items []SaleItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func (s *Sale) UnmarshalJSON(data []byte) error {
	type plain Sale
	var raw struct {
		plain
		ID looseID `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Sale(raw.plain)
	s.ID = string(raw.ID)
	return nil
}

type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// UnmarshalJSON falls back to "id" for items stored as copied cart lines,
// which carry the product id under that key.
func (i *SaleItem) UnmarshalJSON(data []byte) error {
	type plain SaleItem
	var raw struct {
		plain
		ProductID looseID `json:"productId"`
		CartID    looseID `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = SaleItem(raw.plain)
	i.ProductID = string(raw.ProductID)
	if i.ProductID == "" {
		i.ProductID = string(raw.CartID)
	}
	return nil
}

// Subtotal is price*quantity for the line.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SaleLine is one requested (product, quantity) pair of a proposed sale.
type SaleLine struct {
	ProductID string `json:"productId" mapstructure:"productId"`
	Quantity  int    `json:"quantity" mapstructure:"quantity"`
}

// ProductInput carries the fields of a product to create; the id is assigned
// by the catalog.
type ProductInput struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID string          `json:"categoryId"`
	Image      string          `json:"image"`
}

// ProductPatch is a shallow merge: nil fields keep their current value.
type ProductPatch struct {
	Name       *string          `json:"name"`
	Price      *decimal.Decimal `json:"price"`
	Stock      *int             `json:"stock"`
	CategoryID *string          `json:"categoryId"`
	Image      *string          `json:"image"`
}

func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Stock == nil && p.CategoryID == nil && p.Image == nil
}

type CategoryInput struct {
	Name      string `json:"name"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type CategoryPatch struct {
	Name      *string `json:"name"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

// SalesSummary aggregates the recorded sales.
type SalesSummary struct {
	Count     int             `json:"count"`
	Revenue   decimal.Decimal `json:"revenue"`
	UnitsSold int             `json:"units_sold"`
	FirstSale *time.Time      `json:"first_sale,omitempty"`
	LastSale  *time.Time      `json:"last_sale,omitempty"`
}
