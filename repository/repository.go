// Package repository looks up postgres rows by the hash ID of their
// primary key.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/nhAnik/modelhashid/hashid"
)

type Repository[K hashid.Key] struct {
	db        *sql.DB
	typ       *hashid.Type[K]
	table     string
	keyColumn string
}

func New[K hashid.Key](db *sql.DB, t *hashid.Type[K], table, keyColumn string) *Repository[K] {
	if keyColumn == "" {
		keyColumn = "id"
	}
	return &Repository[K]{db: db, typ: t, table: table, keyColumn: keyColumn}
}

// FindByHashID scans columns of the row hashID points to into dest.
// It reports false, without querying, when hashID does not decode, and
// false when no such row exists.
func (r *Repository[K]) FindByHashID(ctx context.Context, hashID string, columns []string, dest ...any) (bool, error) {
	if len(columns) == 0 || len(columns) != len(dest) {
		return false, fmt.Errorf("%d columns for %d destinations", len(columns), len(dest))
	}
	key, ok := r.typ.KeyFromHashID(hashID)
	if !ok {
		return false, nil
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pq.QuoteIdentifier(c)
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(quoted, ", "), pq.QuoteIdentifier(r.table), pq.QuoteIdentifier(r.keyColumn))
	return r.scan(ctx, sql, key, dest...)
}

// ExistsByHashID reports whether a row with the decoded key exists.
func (r *Repository[K]) ExistsByHashID(ctx context.Context, hashID string) (bool, error) {
	key, ok := r.typ.KeyFromHashID(hashID)
	if !ok {
		return false, nil
	}
	var one int
	sql := fmt.Sprintf("SELECT 1 FROM %s WHERE %s = $1",
		pq.QuoteIdentifier(r.table), pq.QuoteIdentifier(r.keyColumn))
	return r.scan(ctx, sql, key, &one)
}

func (r *Repository[K]) scan(ctx context.Context, query string, key K, dest ...any) (bool, error) {
	err := r.db.QueryRowContext(ctx, query, key).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query %s: %w", r.table, err)
	}
	return true, nil
}
