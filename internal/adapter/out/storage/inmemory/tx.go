package inmemory

import "context"

// TxManager is a pass-through stand-in for the SQL transaction manager.
// The in-memory storages apply each write atomically under their own
// locks, so there is nothing to coordinate.
type TxManager struct{}

func NewTxManager() TxManager {
	return TxManager{}
}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
