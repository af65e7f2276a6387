// Package playback drives continuous generation advances from host frame
// notifications, gated by a minimum interval between advances.
package playback

import "time"

// FrameID identifies a pending frame request; the zero value is never issued
type FrameID uint64

// FrameSource delivers one-shot per-frame notifications from the host.
// A callback runs at most once; it must request again to keep receiving frames.
type FrameSource interface {
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
}

// FrameQueue is a FrameSource driven by explicit Tick calls from the host loop.
// It is not safe for concurrent use; the goroutine that owns the simulation
// calls both RequestFrame and Tick.
type FrameQueue struct {
	next      FrameID
	order     []FrameID
	callbacks map[FrameID]func(time.Time)
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{callbacks: make(map[FrameID]func(time.Time))}
}

// RequestFrame schedules fn for the next Tick
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameID {
	q.next++
	q.order = append(q.order, q.next)
	q.callbacks[q.next] = fn
	return q.next
}

// CancelFrame drops a pending request; unknown or already-run ids are ignored
func (q *FrameQueue) CancelFrame(id FrameID) {
	delete(q.callbacks, id)
}

// Pending returns the number of requests waiting for the next Tick
func (q *FrameQueue) Pending() int {
	return len(q.callbacks)
}

// Tick runs every callback requested before this call and returns how many ran.
// Callbacks requested while ticking wait for the next Tick.
func (q *FrameQueue) Tick(now time.Time) int {
	due := q.order
	q.order = nil

	ran := 0
	for _, id := range due {
		fn, ok := q.callbacks[id]
		if !ok {
			continue
		}
		delete(q.callbacks, id)
		fn(now)
		ran++
	}
	return ran
}
