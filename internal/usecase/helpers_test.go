package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"pos_service/internal/domain"
	"pos_service/internal/store"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// sequentialIDs hands out id-1, id-2, ... so tests can predict ids.
func sequentialIDs(prefix string) IDGenerator {
	var n int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, atomic.AddInt64(&n, 1))
	}
}

func newFileStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.NewFileBackend(filepath.Join(t.TempDir(), "db.json")), quietLogger())
	s.Load(context.Background())
	return s
}

func newMemoryStore(backend *switchableBackend) *store.Store {
	s := store.New(backend, quietLogger())
	s.Load(context.Background())
	return s
}

// switchableBackend keeps the document in memory and fails writes on demand.
type switchableBackend struct {
	mu   sync.Mutex
	data []byte
	fail bool
}

func (b *switchableBackend) Read(context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, store.ErrNoDocument
	}
	return b.data, nil
}

func (b *switchableBackend) Write(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return errors.New("read-only file system")
	}
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *switchableBackend) setFail(fail bool) {
	b.mu.Lock()
	b.fail = fail
	b.mu.Unlock()
}

func (b *switchableBackend) Close() error   { return nil }
func (b *switchableBackend) String() string { return "memory" }

func seedProduct(t *testing.T, s *store.Store, p domain.Product) {
	t.Helper()
	require.NoError(t, s.Update(context.Background(), func(doc *domain.Document) error {
		doc.Products = append(doc.Products, p)
		return nil
	}))
}

func encodedDocument(t *testing.T, s *store.Store) string {
	t.Helper()
	data, err := store.Encode(s.Read())
	require.NoError(t, err)
	return string(data)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}
