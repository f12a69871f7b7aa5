package credential

import "context"

// StateStore is the persistence contract for the credential pool.  The state
// is a single document: Load returns the whole pool, Save rewrites it.
//
// The load→modify→save cycle in the pool is deliberately not transactional;
// concurrent writers across processes are last-writer-wins and may
// oversubscribe a credential's quota by a small margin.  Implementations
// must not try to "fix" this with locking — the provider enforces the real
// quota, the local counter is an approximation.
type StateStore interface {
	// Load returns the persisted state, or (nil, false, nil) when no state
	// has been written yet.
	Load(ctx context.Context) (*PoolState, bool, error)

	// Save rewrites the full state.
	Save(ctx context.Context, state *PoolState) error
}
