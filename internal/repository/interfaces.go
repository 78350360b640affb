package repository

import "context"

// Keys of the three independently persisted collections.
const (
	KeySnapshot    = "packingListState"
	KeyCustomItems = "customPackingItems"
	KeyTemplates   = "packingListTemplates"
)

// KVStore is a string key-value store. Get returns ErrNotFound for a missing
// key; Set fails with ErrQuotaExceeded when the value does not fit.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
