package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos_service/internal/domain"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// failingBackend accepts reads and rejects writes once failWrites is set.
type failingBackend struct {
	data       []byte
	failWrites bool
	writes     int
}

func (b *failingBackend) Read(context.Context) ([]byte, error) {
	if b.data == nil {
		return nil, ErrNoDocument
	}
	return b.data, nil
}

func (b *failingBackend) Write(_ context.Context, data []byte) error {
	if b.failWrites {
		return errors.New("disk full")
	}
	b.writes++
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *failingBackend) Close() error   { return nil }
func (b *failingBackend) String() string { return "failing" }

func sampleDocument() domain.Document {
	doc := domain.NewDocument()
	doc.Categories = append(doc.Categories, domain.Category{ID: "c1", Name: "Drinks", IsActive: true, SortOrder: 2})
	doc.Products = append(doc.Products,
		domain.Product{ID: "p1", Name: "Coffee", Price: decimal.RequireFromString("3.50"), Stock: 10, CategoryID: "c1"},
		domain.Product{ID: "p2", Name: "Bagel", Price: decimal.RequireFromString("2.25"), Stock: 4, Image: "bagel.png"},
	)
	doc.Sales = append(doc.Sales, domain.Sale{
		ID:    "s1",
		Date:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		Items: []domain.SaleItem{{ProductID: "p1", Name: "Coffee", Price: decimal.RequireFromString("3.50"), Quantity: 2}},
		Total: decimal.RequireFromString("7.00"),
	})
	doc.Cart = append(doc.Cart, json.RawMessage(`{"id":"p2","quantity":1}`))
	return doc
}

func encoded(t *testing.T, doc domain.Document) string {
	t.Helper()
	data, err := Encode(doc)
	require.NoError(t, err)
	return string(data)
}

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	s := New(NewFileBackend(filepath.Join(t.TempDir(), "db.json")), quietLogger())

	doc := s.Load(context.Background())

	assert.NotNil(t, doc.Products)
	assert.NotNil(t, doc.Categories)
	assert.NotNil(t, doc.Sales)
	assert.NotNil(t, doc.Cart)
	assert.Empty(t, doc.Products)
}

func TestLoad_MalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products": [`), 0o600))
	s := New(NewFileBackend(path), quietLogger())

	doc := s.Load(context.Background())

	assert.Empty(t, doc.Products)
	assert.NotNil(t, doc.Sales)
}

func TestLoad_FillsMissingCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{"products":[{"id":"1700000000000","name":"Tea","price":1.5,"stock":3}],"sales":null}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))
	s := New(NewFileBackend(path), quietLogger())

	doc := s.Load(context.Background())

	require.Len(t, doc.Products, 1)
	assert.Equal(t, "1700000000000", doc.Products[0].ID)
	assert.True(t, doc.Products[0].Price.Equal(decimal.RequireFromString("1.5")))
	assert.NotNil(t, doc.Categories)
	assert.NotNil(t, doc.Sales)
	assert.NotNil(t, doc.Cart)
}

func TestLoad_AcceptsNumericIDsAndCartLineItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	legacy := `{
		"products":[{"id":1700000000000,"name":"Latte","price":3.5,"stock":4,"categoryId":1699999999999}],
		"categories":[{"id":1699999999999,"name":"Drinks"}],
		"sales":[{"id":"1700000000123","date":"2024-01-02T10:00:00.000Z",
			"items":[{"id":"1700000000000","name":"Latte","price":3.5,"quantity":1,"stock":5,"categoryId":1699999999999}],
			"total":3.5,"timestamp":1700000000123}],
		"cart":[]
	}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))
	s := New(NewFileBackend(path), quietLogger())

	doc := s.Load(context.Background())

	require.Len(t, doc.Products, 1)
	assert.Equal(t, "1700000000000", doc.Products[0].ID)
	assert.Equal(t, "1699999999999", doc.Products[0].CategoryID)
	assert.Equal(t, 4, doc.Products[0].Stock)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "1699999999999", doc.Categories[0].ID)
	assert.True(t, doc.Categories[0].IsActive)
	require.Len(t, doc.Sales, 1)
	assert.Equal(t, "1700000000123", doc.Sales[0].ID)
	assert.Equal(t, time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), doc.Sales[0].Date.UTC())
	require.Len(t, doc.Sales[0].Items, 1)
	assert.Equal(t, "1700000000000", doc.Sales[0].Items[0].ProductID)
	assert.Equal(t, 1, doc.Sales[0].Items[0].Quantity)

	out := encoded(t, doc)
	assert.Contains(t, out, `"productId": "1700000000000"`)
	assert.Contains(t, out, `"id": "1700000000000"`)
}

func TestCommitThenLoad_RoundTrip(t *testing.T) {
	backends := map[string]func(t *testing.T) Backend{
		"file": func(t *testing.T) Backend {
			return NewFileBackend(filepath.Join(t.TempDir(), "nested", "db.json"))
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := OpenSQLiteBackend(context.Background(), filepath.Join(t.TempDir(), "pos.db"))
			require.NoError(t, err)
			return b
		},
		"bolt": func(t *testing.T) Backend {
			b, err := OpenBoltBackend(filepath.Join(t.TempDir(), "pos.bolt"))
			require.NoError(t, err)
			return b
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			backend := open(t)
			defer backend.Close()

			writer := New(backend, quietLogger())
			writer.Load(ctx)
			committed := sampleDocument()
			require.NoError(t, writer.Commit(ctx, committed))
			assert.Equal(t, uint64(1), writer.Version())

			reader := New(backend, quietLogger())
			loaded := reader.Load(ctx)

			assert.Equal(t, encoded(t, committed), encoded(t, loaded))
			require.Len(t, loaded.Sales, 1)
			assert.True(t, loaded.Sales[0].Date.Equal(committed.Sales[0].Date))
			assert.JSONEq(t, `{"id":"p2","quantity":1}`, string(loaded.Cart[0]))
		})
	}
}

func TestCommit_OverwritesPreviousDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	s := New(NewFileBackend(path), quietLogger())
	s.Load(ctx)

	require.NoError(t, s.Commit(ctx, sampleDocument()))
	require.NoError(t, s.Commit(ctx, domain.NewDocument()))

	loaded := New(NewFileBackend(path), quietLogger()).Load(ctx)
	assert.Empty(t, loaded.Products)
	assert.Empty(t, loaded.Sales)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestCommit_FailureKeepsMemoryAndReportsIOError(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	s := New(backend, quietLogger())
	s.Load(ctx)

	backend.failWrites = true
	err := s.Commit(ctx, sampleDocument())

	var ioErr *domain.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, domain.KindIOError, domain.KindOf(err))
	assert.Len(t, s.Read().Products, 2, "in-memory state keeps the mutation")
	assert.Equal(t, uint64(0), s.Version())
	assert.Nil(t, backend.data)
}

func TestUpdate_FnErrorLeavesDocumentUntouched(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	s := New(backend, quietLogger())
	s.Load(ctx)
	require.NoError(t, s.Commit(ctx, sampleDocument()))
	before := encoded(t, s.Read())

	err := s.Update(ctx, func(doc *domain.Document) error {
		doc.Products[0].Stock = 0
		doc.Sales = nil
		return domain.Invalidf("rejected")
	})

	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Equal(t, before, encoded(t, s.Read()))
	assert.Equal(t, 1, backend.writes)
}

func TestUpdate_CommitsMutation(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	s := New(backend, quietLogger())
	s.Load(ctx)

	err := s.Update(ctx, func(doc *domain.Document) error {
		doc.Categories = append(doc.Categories, domain.Category{ID: "c9", Name: "Snacks", IsActive: true})
		return nil
	})

	require.NoError(t, err)
	persisted, err := Decode(backend.data)
	require.NoError(t, err)
	require.Len(t, persisted.Categories, 1)
	assert.Equal(t, "Snacks", persisted.Categories[0].Name)
}

func TestRead_ReturnsIndependentSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New(&failingBackend{}, quietLogger())
	s.Load(ctx)
	require.NoError(t, s.Commit(ctx, sampleDocument()))

	snap := s.Read()
	snap.Products[0].Stock = 999
	snap.Sales[0].Items[0].Quantity = 999

	fresh := s.Read()
	assert.Equal(t, 10, fresh.Products[0].Stock)
	assert.Equal(t, 2, fresh.Sales[0].Items[0].Quantity)
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := domain.Document{Sales: []domain.Sale{{ID: "s1"}}}

	once := Normalize(doc)
	twice := Normalize(once)

	assert.Equal(t, once, twice)
	assert.NotNil(t, once.Products)
	assert.NotNil(t, once.Sales[0].Items)
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, err := OpenBackend(context.Background(), BackendConfig{Driver: "mongo"})
	assert.Error(t, err)
}
