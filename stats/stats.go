package stats

import "sync"

// Delta represents an incremental counter change emitted by the coordinator.
// The fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Submitted int
	Immediate int
	Deferred  int
	Granted   int
	Denied    int
	Cancelled int
	Resets    int
	Waiters   int
}

// Counters is a point-in-time copy of the aggregated request counters.
type Counters struct {
	Submitted int // every SubmitRequest call that passed validation
	Immediate int // ran synchronously because no waiter was registered
	Deferred  int // held for consent
	Granted   int // granted after the last waiter consented
	Denied    int // vetoed with Deny; waiter kept
	Cancelled int // vetoed with DenyButAllowFuture; waiter removed
	Resets    int
	Waiters   int // currently registered
}

// Outstanding returns deferred requests that are neither granted nor vetoed.
// Requests dropped by a reset stay outstanding.
func (c Counters) Outstanding() int {
	return c.Deferred - c.Granted - c.Denied - c.Cancelled
}

// Stats keeps aggregated request counters. It is safe for concurrent use.
type Stats struct {
	mu       sync.Mutex
	counters Counters
	onChange func(Counters)
}

// Update applies the supplied delta. If an onChange callback has been
// registered it is invoked with a copy of the updated counters outside the
// critical section, so the callback may read the tracker again.
func (s *Stats) Update(d Delta) {
	if s == nil {
		return
	}

	s.mu.Lock()
	c := &s.counters
	c.Submitted += d.Submitted
	c.Immediate += d.Immediate
	c.Deferred += d.Deferred
	c.Granted += d.Granted
	c.Denied += d.Denied
	c.Cancelled += d.Cancelled
	c.Resets += d.Resets
	c.Waiters += d.Waiters
	snapshot := *c
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() Counters {
	if s == nil {
		return Counters{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters
}

// OnChange registers a callback that is invoked after every Update. Passing
// nil disables the callback. Only one callback can be active; subsequent
// calls overwrite the previous value.
func (s *Stats) OnChange(cb func(Counters)) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.onChange = cb
	s.mu.Unlock()
}
