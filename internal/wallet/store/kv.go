package store

import "context"

// Keys under which the wallet keeps its two values.
const (
	KeyTransactions = "kora_transactions"
	KeyUser         = "kora_user"
)

// KV is a durable string-keyed byte store. Get returns pkgerror.ErrNotFound for
// an absent key; Put overwrites the whole value at once.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
