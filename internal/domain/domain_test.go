package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"not found", NotFoundf("product with id %s", "x"), KindNotFound},
		{"invalid", Invalidf("quantity must be positive"), KindInvalidRequest},
		{"stock", &InsufficientStockError{ProductID: "p1", Requested: 2, Available: 1}, KindInsufficientStock},
		{"wrapped stock", fmt.Errorf("record sale: %w", &InsufficientStockError{ProductID: "p1"}), KindInsufficientStock},
		{"io", &IOError{Op: "commit document", Err: errors.New("disk full")}, KindIOError},
		{"other", errors.New("boom"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestCategory_IsActiveDefaultsToTrue(t *testing.T) {
	var legacy Category
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","name":"Drinks","sort_order":3}`), &legacy))
	assert.True(t, legacy.IsActive)
	assert.Equal(t, 3, legacy.SortOrder)

	var inactive Category
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c2","name":"Old","is_active":false}`), &inactive))
	assert.False(t, inactive.IsActive)
}

func TestProduct_PriceIsJSONNumber(t *testing.T) {
	data, err := json.Marshal(Product{ID: "p1", Name: "Tea", Price: decimal.RequireFromString("10.50"), Stock: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p1","name":"Tea","price":10.5,"stock":1}`, string(data))
}

func TestDocumentClone_SharesNothing(t *testing.T) {
	doc := NewDocument()
	doc.Products = append(doc.Products, Product{ID: "p1", Stock: 1})
	doc.Sales = append(doc.Sales, Sale{ID: "s1", Items: []SaleItem{{ProductID: "p1", Quantity: 1}}})
	doc.Cart = append(doc.Cart, json.RawMessage(`{"a":1}`))

	clone := doc.Clone()
	clone.Products[0].Stock = 9
	clone.Sales[0].Items[0].Quantity = 9
	clone.Cart[0][1] = 'b'

	assert.Equal(t, 1, doc.Products[0].Stock)
	assert.Equal(t, 1, doc.Sales[0].Items[0].Quantity)
	assert.Equal(t, `{"a":1}`, string(doc.Cart[0]))
}

func TestSaleItemSubtotal(t *testing.T) {
	item := SaleItem{Price: decimal.RequireFromString("0.10"), Quantity: 3}
	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("0.30")))
}

func TestLooseID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`1700000000000`, "1700000000000", false},
		{`"p-1"`, "p-1", false},
		{`null`, "", false},
		{`true`, "", true},
		{`{"id":1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var id looseID
			err := json.Unmarshal([]byte(tt.in), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(id))
		})
	}
}

func TestSaleItem_AcceptsCartLineShape(t *testing.T) {
	var item SaleItem
	data := `{"id":1700000000000,"name":"Latte","price":3.5,"stock":5,"categoryId":1,"quantity":2}`
	require.NoError(t, json.Unmarshal([]byte(data), &item))
	assert.Equal(t, "1700000000000", item.ProductID)
	assert.Equal(t, 2, item.Quantity)

	var both SaleItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","id":"cart-7","quantity":1}`), &both))
	assert.Equal(t, "p1", both.ProductID)
}
