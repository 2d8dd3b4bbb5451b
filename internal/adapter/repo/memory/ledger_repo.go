package memory

import "context"

type PlayLedgerRepo struct {
	store *Store
}

func NewPlayLedgerRepo(store *Store) PlayLedgerRepo {
	return PlayLedgerRepo{store: store}
}

func (r PlayLedgerRepo) LockDay(ctx context.Context, userID, localDate string) (int, error) {
	var plays int
	r.store.with(ctx, func() {
		plays = r.store.ledger[ledgerKey(userID, localDate)]
	})
	return plays, nil
}

func (r PlayLedgerRepo) Increment(ctx context.Context, userID, localDate string) error {
	r.store.with(ctx, func() {
		r.store.ledger[ledgerKey(userID, localDate)]++
	})
	return nil
}
