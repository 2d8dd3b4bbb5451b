package ports

import (
	"context"
	"errors"
)

const DefaultConflictRetries = 3

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RunInTxRetry reruns fn in a fresh transaction while it fails with ErrConflict.
func RunInTxRetry(ctx context.Context, tx TxManager, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultConflictRetries
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = tx.RunInTx(ctx, fn)
		if !errors.Is(err, ErrConflict) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}
