// Package keypool implements the rotating pool of search-provider
// credentials with persistent per-key monthly quotas.  The pool survives
// process restarts by keeping its state in an injected StateStore; every
// issuance is a load→modify→save cycle against that store.
package keypool

import (
	"context"
	"time"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/internal/infrastructure/monitoring/logging"
	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// ResetPolicy selects which usage counters are zeroed when the pool observes
// a new quota month.
type ResetPolicy string

const (
	// ResetExhaustedOnly zeroes only credentials that had reached the cap.
	// Partially-used credentials keep their counters.  This mirrors the
	// provider dashboard the pool was originally reconciled against and is
	// the default.
	ResetExhaustedOnly ResetPolicy = "exhausted_only"

	// ResetAll zeroes every counter on rollover.
	ResetAll ResetPolicy = "all"
)

// Pool issues credentials in fixed list order, first under-cap wins.
// Acquire never blocks and never fails a caller on quota exhaustion: when
// every credential is at cap it returns the first key anyway and lets the
// provider report its own rate-limit error.
type Pool struct {
	store  credential.StateStore
	seeds  []*credential.Credential
	policy ResetPolicy
	now    func() time.Time
	logger logging.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithResetPolicy overrides the month-rollover reset policy.
func WithResetPolicy(p ResetPolicy) Option {
	return func(pool *Pool) { pool.policy = p }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(pool *Pool) { pool.now = now }
}

// NewPool constructs a Pool over the given store.  seeds is the static
// credential list materialized on first use, when the store holds no state
// yet.
func NewPool(store credential.StateStore, seeds []*credential.Credential, logger logging.Logger, opts ...Option) *Pool {
	p := &Pool{
		store:  store,
		seeds:  seeds,
		policy: ResetExhaustedOnly,
		now:    time.Now,
		logger: logger.Named("keypool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// load returns the persisted state with month rollover applied, seeding from
// the static list when the store is empty.  The returned state is private to
// the caller.  rolled reports whether rollover changed anything and the
// state therefore needs persisting.
func (p *Pool) load(ctx context.Context) (*credential.PoolState, bool, error) {
	state, found, err := p.store.Load(ctx)
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodePoolStateLoad, "load pool state")
	}
	if !found {
		seeded := &credential.PoolState{Month: credential.MonthOf(p.now())}
		for _, s := range p.seeds {
			c := *s
			seeded.Keys = append(seeded.Keys, &c)
		}
		return seeded, true, nil
	}

	state = state.Clone()
	current := credential.MonthOf(p.now())
	if state.Month == current {
		return state, false, nil
	}

	for _, k := range state.Keys {
		switch p.policy {
		case ResetAll:
			k.Used = 0
		default:
			if k.Used == credential.MonthlyCap {
				k.Used = 0
			}
		}
	}
	state.Month = current
	p.logger.Info("quota month rolled over",
		logging.String("month", current),
		logging.String("policy", string(p.policy)),
	)
	return state, true, nil
}

// Acquire returns the key of the first credential under its monthly cap,
// incrementing its counter and persisting the new state before returning.
// When every credential is at cap the first credential's key is returned
// unchanged: the caller proceeds and accepts the provider's rate-limit
// error rather than aborting locally.
//
// Errors are storage errors only; quota exhaustion is never an error.
func (p *Pool) Acquire(ctx context.Context) (string, error) {
	state, dirty, err := p.load(ctx)
	if err != nil {
		return "", err
	}
	if len(state.Keys) == 0 {
		return "", errors.New(errors.ErrCodePoolStateInvalid, "credential pool is empty")
	}

	for _, k := range state.Keys {
		if k.Used < credential.MonthlyCap {
			k.Used++
			if err := p.store.Save(ctx, state); err != nil {
				return "", errors.Wrap(err, errors.ErrCodePoolStateSave, "persist pool state")
			}
			p.logger.Debug("credential issued",
				logging.String("name", k.Name),
				logging.Int("used", k.Used),
			)
			return k.Key, nil
		}
	}

	// All at cap: persist only a pending rollover, then soft-fail.
	if dirty {
		if err := p.store.Save(ctx, state); err != nil {
			return "", errors.Wrap(err, errors.ErrCodePoolStateSave, "persist pool state")
		}
	}
	p.logger.Warn("all credentials exhausted, returning first key",
		logging.Int("keys", len(state.Keys)),
	)
	return state.Keys[0].Key, nil
}

// Status returns the credential list and aggregate usage.  It applies month
// rollover to the returned view but does not persist anything; the next
// Acquire performs the durable rollover.
func (p *Pool) Status(ctx context.Context) (*credential.PoolStatus, error) {
	state, _, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	status := &credential.PoolStatus{
		Keys:     state.Keys,
		Capacity: len(state.Keys) * credential.MonthlyCap,
	}
	for _, k := range state.Keys {
		status.UsedTotal += k.Used
		if k.Used < credential.MonthlyCap {
			status.Available++
		}
	}
	return status, nil
}
