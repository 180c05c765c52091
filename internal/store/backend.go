package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoDocument is returned by Backend.Read when nothing has been written yet.
var ErrNoDocument = errors.New("no document stored")

// Backend persists one serialized document. Write must replace the previous
// document as a whole or leave it untouched.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
	String() string
}

// BackendConfig selects and configures a backend.
type BackendConfig struct {
	Driver      string // file | sqlite | postgres | bolt
	Path        string
	DatabaseURL string
}

// OpenBackend opens the backend named by cfg.Driver.
func OpenBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch cfg.Driver {
	case "", "file":
		return NewFileBackend(cfg.Path), nil
	case "sqlite":
		b, err := OpenSQLiteBackend(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "postgres":
		b, err := OpenPostgresBackend(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "bolt":
		b, err := OpenBoltBackend(cfg.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
