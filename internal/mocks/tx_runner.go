package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-flashcards/internal/store"
)

// FakeTxRunner implements store.TxRunner by calling the function inline with
// a nil transaction. CommitErr, when set, is returned after fn succeeds as if
// the commit had failed.
type FakeTxRunner struct {
	CommitErr error

	mu        sync.Mutex
	calls     int
	committed int
}

var _ store.TxRunner = (*FakeTxRunner)(nil)

// RunInTx implements store.TxRunner.
func (r *FakeTxRunner) RunInTx(ctx context.Context, fn store.TxFn) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if err := fn(ctx, nil); err != nil {
		return err
	}
	if r.CommitErr != nil {
		return r.CommitErr
	}

	r.mu.Lock()
	r.committed++
	r.mu.Unlock()
	return nil
}

// Calls returns how many transactions were started.
func (r *FakeTxRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Committed returns how many transactions committed.
func (r *FakeTxRunner) Committed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}
