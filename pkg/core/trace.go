package core

import (
	"sync"
	"time"
)

const (
	defaultTraceCapacity = 120
	// defaultSlowCommit marks commits that would blow a 60Hz frame.
	defaultSlowCommit = 16667 * time.Microsecond
)

// CycleStats summarizes one committed render cycle.
type CycleStats struct {
	Seq            uint64        `json:"seq"`
	Started        time.Time     `json:"started"`
	Duration       time.Duration `json:"durationNs"`
	CommitDuration time.Duration `json:"commitNs"`
	Units          int           `json:"units"`
	Slices         int           `json:"slices"`
	Restarts       int           `json:"restarts"`
	Fibers         int           `json:"fibers"`
	Creates        int           `json:"creates"`
	Updates        int           `json:"updates"`
	Deletes        int           `json:"deletes"`
	// Mutations counts every host call made by the commit.
	Mutations int `json:"mutations"`
	// UpdateOps counts the attribute, text and listener calls made for
	// UPDATE fibers only. An identical re-render has zero.
	UpdateOps int `json:"updateOps"`
}

// CycleTimeline is the debug server response shape.
type CycleTimeline struct {
	Cycles       []CycleStats `json:"cycles"`
	SlowCommits  int          `json:"slowCommits"`
	ThresholdMs  float64      `json:"thresholdMs"`
	TotalCommits uint64       `json:"totalCommits"`
}

// CycleTraceBuffer stores recent cycle statistics in a ring buffer. It is
// safe to read from other goroutines while the engine writes to it.
type CycleTraceBuffer struct {
	mu        sync.RWMutex
	samples   []CycleStats
	index     int
	count     int
	total     uint64
	slow      int
	threshold time.Duration
}

// NewCycleTraceBuffer creates a buffer holding the last capacity cycles.
func NewCycleTraceBuffer(capacity int) *CycleTraceBuffer {
	if capacity <= 0 {
		capacity = defaultTraceCapacity
	}
	return &CycleTraceBuffer{
		samples:   make([]CycleStats, capacity),
		threshold: defaultSlowCommit,
	}
}

// Capacity returns the buffer capacity.
func (b *CycleTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// SetThreshold updates the commit duration above which a cycle counts as slow.
func (b *CycleTraceBuffer) SetThreshold(threshold time.Duration) {
	if threshold <= 0 {
		threshold = defaultSlowCommit
	}
	b.mu.Lock()
	b.threshold = threshold
	b.mu.Unlock()
}

// Add records a cycle.
func (b *CycleTraceBuffer) Add(s CycleStats) {
	b.mu.Lock()
	b.samples[b.index] = s
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	b.total++
	if s.CommitDuration > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Last returns the most recently added cycle.
func (b *CycleTraceBuffer) Last() (CycleStats, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.count == 0 {
		return CycleStats{}, false
	}
	i := (b.index - 1 + len(b.samples)) % len(b.samples)
	return b.samples[i], true
}

// Snapshot returns a chronological copy of the buffered cycles.
func (b *CycleTraceBuffer) Snapshot() CycleTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tl := CycleTimeline{
		SlowCommits:  b.slow,
		ThresholdMs:  float64(b.threshold) / float64(time.Millisecond),
		TotalCommits: b.total,
	}
	if b.count == 0 {
		return tl
	}
	tl.Cycles = make([]CycleStats, b.count)
	if b.count < len(b.samples) {
		copy(tl.Cycles, b.samples[:b.count])
	} else {
		copy(tl.Cycles, b.samples[b.index:])
		copy(tl.Cycles[len(b.samples)-b.index:], b.samples[:b.index])
	}
	return tl
}
