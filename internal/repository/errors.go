package repository

import "errors"

var (
	// ErrNotFound is returned when a requested key or entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrQuotaExceeded is returned when a write would grow the store past its quota
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrStorageWrite is returned when the backing store rejects a write
	ErrStorageWrite = errors.New("storage write failed")
)
