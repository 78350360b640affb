package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/packlist/internal/repository"
)

// DefaultQuotaBytes matches the per-origin budget of browser local storage.
const DefaultQuotaBytes int64 = 5 << 20

// KVStore implements repository.KVStore on the kv_store table
type KVStore struct {
	db    *DB
	quota int64
}

// NewKVStore creates a KVStore. A quota of zero or less disables the limit.
func NewKVStore(db *DB, quotaBytes int64) *KVStore {
	return &KVStore{db: db, quota: quotaBytes}
}

// Get returns the value stored under key
func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value. The size of every
// stored key and value counts against the quota.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", repository.ErrStorageWrite, err)
	}
	defer tx.Rollback()

	if s.quota > 0 {
		var others int64
		err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv_store WHERE key <> ?`,
			key,
		).Scan(&others)
		if err != nil {
			return fmt.Errorf("%w: measuring usage: %v", repository.ErrStorageWrite, err)
		}
		if others+int64(len(key)+len(value)) > s.quota {
			return fmt.Errorf("setting %s: %w", key, repository.ErrQuotaExceeded)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		if isDiskFull(err) {
			return fmt.Errorf("setting %s: %w", key, repository.ErrQuotaExceeded)
		}
		return fmt.Errorf("%w: setting %s: %v", repository.ErrStorageWrite, key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", repository.ErrStorageWrite, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: deleting %s: %v", repository.ErrStorageWrite, key, err)
	}
	return nil
}

// Usage returns the number of bytes currently counted against the quota.
func (s *KVStore) Usage(ctx context.Context) (int64, error) {
	var used int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0) FROM kv_store`,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to measure usage: %w", err)
	}
	return used, nil
}
