// Package stats implements modes.StatsSink: an in-memory counter/set
// implementation and a Prometheus-backed one, per spec.md §3's "Aggregate
// statistics" and SPEC_FULL.md §4.7.
package stats

import (
	"sync"
	"sync/atomic"
)

// Memory is a modes.StatsSink backed by atomic counters and a
// mutex-guarded set of membership maps. Safe for concurrent use from many
// decode goroutines at once; the mutex it uses for sets is distinct from
// any store-level lock so statistics never block per-aircraft decoding.
type Memory struct {
	counters sync.Map // name string -> *atomic.Int64

	mu      sync.Mutex
	mins    map[string]float64
	maxs    map[string]float64
	sums    map[string]float64
	members map[string]map[string]struct{}
}

// NewMemory returns an empty Memory sink.
func NewMemory() *Memory {
	return &Memory{
		mins:    make(map[string]float64),
		maxs:    make(map[string]float64),
		sums:    make(map[string]float64),
		members: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Inc(name string) {
	v, _ := m.counters.LoadOrStore(name, new(atomic.Int64))
	v.(*atomic.Int64).Add(1)
}

// Add accumulates n into a running total for name, for quantities that
// aren't simple per-event counts (e.g. bits decoded per message).
func (m *Memory) Add(name string, n float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sums[name] += n
}

// Sum returns the running total accumulated for name via Add.
func (m *Memory) Sum(name string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sums[name]
}

// Count returns the current value of a named counter.
func (m *Memory) Count(name string) int64 {
	v, ok := m.counters.Load(name)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

func (m *Memory) ObserveMin(name string, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.mins[name]
	if !ok || v < cur {
		m.mins[name] = v
	}
}

func (m *Memory) ObserveMax(name string, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.maxs[name]
	if !ok || v > cur {
		m.maxs[name] = v
	}
}

// Min returns the smallest value observed for name, or (0, false) if none.
func (m *Memory) Min(name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.mins[name]
	return v, ok
}

// Max returns the largest value observed for name, or (0, false) if none.
func (m *Memory) Max(name string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.maxs[name]
	return v, ok
}

func (m *Memory) AddMember(set, member string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.members[set]
	if !ok {
		s = make(map[string]struct{})
		m.members[set] = s
	}
	s[member] = struct{}{}
}

// MemberCount returns the number of distinct members recorded for set.
func (m *Memory) MemberCount(set string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.members[set])
}

// HasMember reports whether member was ever added to set.
func (m *Memory) HasMember(set, member string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.members[set][member]
	return ok
}

