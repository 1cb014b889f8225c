package evring

import (
	"sync/atomic"

	"lightcode-go/types"
)

// Ring is a single-producer, single-consumer queue of input events bridging
// interrupt context and the controller loop.
//
// The producer side is safe to call from an IRQ handler: TryPush does two
// atomic loads, a slot write and one atomic store. It never blocks and never
// allocates. A full ring drops the event and bumps a counter. The consumer
// side is equally non-blocking.
type Ring struct {
	buf  []types.InputEvent
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	drops atomic.Uint32 // producer-side overflow count
}

func New(capacity int) *Ring {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic("evring: capacity must be a power of two >= 2")
	}
	return &Ring{
		buf:  make([]types.InputEvent, capacity),
		mask: uint32(capacity - 1),
	}
}

func (r *Ring) Cap() int { return len(r.buf) }
func (r *Ring) Len() int { return int(r.wr.Load() - r.rd.Load()) }

// TryPush appends ev. Reports false, and counts a drop, when the ring is
// full; queued entries are never disturbed.
func (r *Ring) TryPush(ev types.InputEvent) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr-rd >= uint32(len(r.buf)) {
		r.drops.Add(1)
		return false
	}
	r.buf[wr&r.mask] = ev
	r.wr.Store(wr + 1) // release
	return true
}

// TryPop removes the oldest event; ok is false when the ring is empty.
func (r *Ring) TryPop() (ev types.InputEvent, ok bool) {
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	if wr == rd {
		return types.InputEvent{}, false
	}
	ev = r.buf[rd&r.mask]
	r.rd.Store(rd + 1) // release
	return ev, true
}

// Drops returns the number of events discarded because the ring was full.
func (r *Ring) Drops() uint32 { return r.drops.Load() }
