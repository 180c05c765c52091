package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pos_service/pkg/db"
)

const documentRowID = 1

// SQLBackend stores the document as the body of a single row. It is used for
// both SQLite and Postgres; only the placeholder syntax differs.
type SQLBackend struct {
	db      *sql.DB
	dialect string
}

func OpenSQLiteBackend(ctx context.Context, path string) (*SQLBackend, error) {
	conn, err := db.ConnectSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return newSQLBackend(ctx, conn, "sqlite")
}

func OpenPostgresBackend(ctx context.Context, databaseURL string) (*SQLBackend, error) {
	conn, err := db.ConnectPostgres(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return newSQLBackend(ctx, conn, "postgres")
}

func newSQLBackend(ctx context.Context, conn *sql.DB, dialect string) (*SQLBackend, error) {
	b := &SQLBackend{db: conn, dialect: dialect}
	if _, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pos_document (
			id         INTEGER PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create document table: %w", err)
	}
	return b, nil
}

// bind rewrites ? placeholders for dialects that number them.
func (b *SQLBackend) bind(query string) string {
	if b.dialect != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *SQLBackend) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := b.db.QueryRowContext(ctx, b.bind(`SELECT body FROM pos_document WHERE id = ?`), documentRowID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("could not read document: %w", err)
	}
	return []byte(body), nil
}

func (b *SQLBackend) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx, b.bind(`
		INSERT INTO pos_document (id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`),
		documentRowID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("could not write document: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

func (b *SQLBackend) String() string { return b.dialect }
