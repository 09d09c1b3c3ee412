package database

import "context"

// Transactor runs fn as one unit of work. Repositories called with the ctx handed
// to fn participate in the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
