package usecase

import (
	"context"

	"github.com/google/uuid"

	"pos_service/internal/domain"
)

// DocumentStore is what the use cases need from the store: consistent
// snapshots for reads and one exclusive read, mutate, commit cycle per write.
type DocumentStore interface {
	Read() domain.Document
	Update(ctx context.Context, fn func(doc *domain.Document) error) error
	Commit(ctx context.Context, doc domain.Document) error
}

// IDGenerator returns a fresh identifier for a new record.
type IDGenerator func() string

func NewUUID() string {
	return uuid.NewString()
}
