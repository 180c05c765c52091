package usecase

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_service/internal/domain"
	"pos_service/internal/store"
)

func newLedger(s *store.Store) *saleUseCase {
	uc := NewSaleUseCase(s, sequentialIDs("s"), 1, quietLogger()).(*saleUseCase)
	uc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return uc
}

func TestRecordSale_DeductsStockAndFreezesTotal(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("10.00"), Stock: 5})
	ledger := newLedger(s)

	sale, err := ledger.RecordSale(ctx, []domain.SaleLine{{ProductID: "P1", Quantity: 2}})

	require.NoError(t, err)
	assert.Equal(t, "s-1", sale.ID)
	assert.True(t, sale.Total.Equal(price("20.00")), "total was %s", sale.Total)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), sale.Date)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Latte", sale.Items[0].Name)
	assert.Equal(t, 2, sale.Items[0].Quantity)
	assert.True(t, sale.Items[0].Price.Equal(price("10.00")))

	doc := s.Read()
	assert.Equal(t, 3, doc.Products[0].Stock)
	require.Len(t, doc.Sales, 1)
	assert.Equal(t, "s-1", doc.Sales[0].ID)

	reloaded := store.New(s.Backend(), quietLogger()).Load(ctx)
	assert.Equal(t, 3, reloaded.Products[0].Stock)
	assert.Len(t, reloaded.Sales, 1)
}

func TestRecordSale_OneItemPerRequestLine(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("4.50"), Stock: 10})
	seedProduct(t, s, domain.Product{ID: "P2", Name: "Scone", Price: price("2.75"), Stock: 10})

	sale, err := newLedger(s).RecordSale(ctx, []domain.SaleLine{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P2", Quantity: 2},
		{ProductID: "P1", Quantity: 3},
	})

	require.NoError(t, err)
	require.Len(t, sale.Items, 3)
	assert.Equal(t, []string{"P1", "P2", "P1"}, []string{sale.Items[0].ProductID, sale.Items[1].ProductID, sale.Items[2].ProductID})
	assert.True(t, sale.Total.Equal(price("23.50")), "total was %s", sale.Total)

	doc := s.Read()
	assert.Equal(t, 6, doc.Products[0].Stock)
	assert.Equal(t, 8, doc.Products[1].Stock)
}

func TestRecordSale_InsufficientStockChangesNothing(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("10"), Stock: 2})
	seedProduct(t, s, domain.Product{ID: "P2", Name: "Scone", Price: price("3"), Stock: 9})
	before := encodedDocument(t, s)

	_, err := newLedger(s).RecordSale(ctx, []domain.SaleLine{
		{ProductID: "P2", Quantity: 1},
		{ProductID: "P1", Quantity: 3},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "P1", stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, before, encodedDocument(t, s))
}

func TestRecordSale_SumsDemandPerProduct(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("10"), Stock: 1})
	before := encodedDocument(t, s)

	_, err := newLedger(s).RecordSale(ctx, []domain.SaleLine{
		{ProductID: "P1", Quantity: 1},
		{ProductID: "P1", Quantity: 1},
	})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, before, encodedDocument(t, s))
}

func TestRecordSale_UnknownProductIsInsufficientStock(t *testing.T) {
	s := newFileStore(t)

	_, err := newLedger(s).RecordSale(context.Background(), []domain.SaleLine{{ProductID: "ghost", Quantity: 1}})

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "ghost", stockErr.ProductID)
	assert.Equal(t, 0, stockErr.Available)
	assert.Empty(t, s.Read().Sales)
}

func TestRecordSale_RejectsMalformedRequests(t *testing.T) {
	tests := []struct {
		name  string
		lines []domain.SaleLine
	}{
		{"no items", nil},
		{"empty items", []domain.SaleLine{}},
		{"zero quantity", []domain.SaleLine{{ProductID: "P1", Quantity: 0}}},
		{"negative quantity", []domain.SaleLine{{ProductID: "P1", Quantity: -2}}},
		{"missing product id", []domain.SaleLine{{Quantity: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFileStore(t)
			seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("1"), Stock: 5})

			_, err := newLedger(s).RecordSale(context.Background(), tt.lines)

			assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
			assert.Equal(t, 5, s.Read().Products[0].Stock)
		})
	}
}

func TestRecordSale_QuantityOverflowIsRejected(t *testing.T) {
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("1"), Stock: 1})
	before := encodedDocument(t, s)
	half := math.MaxInt/2 + 1

	_, err := newLedger(s).RecordSale(context.Background(), []domain.SaleLine{
		{ProductID: "P1", Quantity: half},
		{ProductID: "P1", Quantity: half},
	})

	assert.Equal(t, domain.KindInvalidRequest, domain.KindOf(err))
	assert.Equal(t, 1, s.Read().Products[0].Stock)
	assert.Empty(t, s.Read().Sales)
	assert.Equal(t, before, encodedDocument(t, s))
}

func TestRecordSale_HistorySurvivesCatalogChanges(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("4.00"), Stock: 5})
	ledger := newLedger(s)
	products := NewProductUseCase(s, nil, quietLogger())

	_, err := ledger.RecordSale(ctx, []domain.SaleLine{{ProductID: "P1", Quantity: 1}})
	require.NoError(t, err)

	_, err = products.EditProduct(ctx, "P1", domain.ProductPatch{Name: ptr("Oat Latte"), Price: ptr(price("5.00"))})
	require.NoError(t, err)
	_, err = products.DeleteProduct(ctx, "P1")
	require.NoError(t, err)

	sale, err := ledger.GetSale("s-1")
	require.NoError(t, err)
	assert.Equal(t, "Latte", sale.Items[0].Name)
	assert.True(t, sale.Items[0].Price.Equal(price("4.00")))
	assert.True(t, sale.Total.Equal(price("4.00")))

	_, err = ledger.GetSale("s-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordSale_CommitFailureKeepsDeduction(t *testing.T) {
	backend := &switchableBackend{}
	s := newMemoryStore(backend)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Latte", Price: price("3"), Stock: 4})
	backend.setFail(true)

	_, err := newLedger(s).RecordSale(context.Background(), []domain.SaleLine{{ProductID: "P1", Quantity: 1}})

	var ioErr *domain.IOError
	require.ErrorAs(t, err, &ioErr)
	doc := s.Read()
	assert.Equal(t, 3, doc.Products[0].Stock)
	assert.Len(t, doc.Sales, 1)

	persisted, err := store.Decode(backend.data)
	require.NoError(t, err)
	assert.Equal(t, 4, persisted.Products[0].Stock, "backend still holds the last good commit")
}

func TestRecordSale_ConcurrentSalesNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	seedProduct(t, s, domain.Product{ID: "P1", Name: "Last croissants", Price: price("2.50"), Stock: 5})
	ledger := newLedger(s)

	const buyers = 12
	var wg sync.WaitGroup
	errs := make([]error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.RecordSale(ctx, []domain.SaleLine{{ProductID: "P1", Quantity: 2}})
		}(i)
	}
	wg.Wait()

	succeeded, rejected := 0, 0
	for _, err := range errs {
		switch domain.KindOf(err) {
		case "":
			succeeded++
		case domain.KindInsufficientStock:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	doc := s.Read()
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, buyers-2, rejected)
	assert.Equal(t, 1, doc.Products[0].Stock)
	assert.Len(t, doc.Sales, 2)
}
