// Package credential defines the shared search-provider credential pool
// entities and the storage contract for their persisted state.
package credential

import "time"

// MonthlyCap is the number of searches one credential may issue per calendar
// month.  Fixed by the provider's free-tier quota.
const MonthlyCap = 250

// Credential is one API key in the rotating pool together with its usage
// counter for the current quota month.
type Credential struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Used int    `json:"used"`
}

// Exhausted reports whether the credential has reached its monthly cap.
func (c *Credential) Exhausted() bool {
	return c.Used >= MonthlyCap
}

// PoolState is the complete persisted pool: the credential list and the
// quota month it belongs to.  It is read and fully rewritten on every
// issuance; there is no finer-grained persistence.
type PoolState struct {
	Keys  []*Credential `json:"keys"`
	Month string        `json:"month"`
}

// Clone returns a deep copy so callers can mutate a loaded state without
// aliasing the store's view.
func (s *PoolState) Clone() *PoolState {
	if s == nil {
		return nil
	}
	out := &PoolState{Month: s.Month, Keys: make([]*Credential, len(s.Keys))}
	for i, k := range s.Keys {
		ck := *k
		out.Keys[i] = &ck
	}
	return out
}

// PoolStatus is the read-only summary returned by status queries.
type PoolStatus struct {
	Keys      []*Credential `json:"keys"`
	Available int           `json:"available"`
	UsedTotal int           `json:"used_total"`
	Capacity  int           `json:"capacity"`
}

// MonthOf formats t as the pool's quota-period key ("2006-01").
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}
