package sweep

import (
	"sync"
	"sync/atomic"
)

// ProgressSteps is the number of progress events over a full traversal.
const ProgressSteps = 10000

// Progress is one progress event.
type Progress struct {
	Done  uint64
	Total uint64
}

// Percent returns the completed share in percent.
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return 100 * float64(p.Done) / float64(p.Total)
}

// ProgressFunc receives progress events. Calls are serialized and Done never
// decreases between calls.
type ProgressFunc func(Progress)

// reportInterval returns how many patterns a worker processes between
// progress events. Ranges shorter than ProgressSteps report every pattern.
func reportInterval(total uint64) uint64 {
	if n := total / ProgressSteps; n > 0 {
		return n
	}
	return 1
}

// tracker aggregates per-worker progress into monotonic events.
type tracker struct {
	total uint64
	done  uint64 // atomic

	mu   sync.Mutex
	last uint64
	emit ProgressFunc
}

func newTracker(total uint64, emit ProgressFunc) *tracker {
	return &tracker{total: total, emit: emit}
}

// advance records n more processed patterns.
func (t *tracker) advance(n uint64) {
	if t == nil || n == 0 {
		return
	}
	done := atomic.AddUint64(&t.done, n)
	if t.emit == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if done > t.last {
		t.last = done
		t.emit(Progress{Done: done, Total: t.total})
	}
}

func (t *tracker) processed() uint64 {
	return atomic.LoadUint64(&t.done)
}
