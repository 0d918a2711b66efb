package webwindow

import "sync"

// Handle is an opaque, generation-counted window reference. The low 32
// bits are a slot index (1-based), the high 32 bits a generation bumped
// on every release, so a handle held past its window's destruction
// resolves to nil instead of a recycled window. The zero Handle is
// never valid.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot))
}

func (h Handle) slot() uint32 { return uint32(h) }
func (h Handle) gen() uint32  { return uint32(h >> 32) }

type handleSlot struct {
	gen uint32
	win *Window
}

// handleTable maps handles to boxed *Window entries. Entries are
// pointers, so registry growth never relocates a window a host still
// references.
type handleTable struct {
	mu    sync.RWMutex
	slots []handleSlot
	free  []uint32
}

func (t *handleTable) alloc(w *Window) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, handleSlot{})
		idx = uint32(len(t.slots) - 1)
	}
	t.slots[idx].win = w
	return makeHandle(idx+1, t.slots[idx].gen)
}

// lookup resolves a handle, returning nil for the zero handle, an
// out-of-range slot, or a stale generation.
func (t *handleTable) lookup(h Handle) *Window {
	if h == 0 {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	idx := h.slot() - 1
	if int(idx) >= len(t.slots) {
		return nil
	}
	s := t.slots[idx]
	if s.gen != h.gen() {
		return nil
	}
	return s.win
}

// release invalidates a handle. Further lookups return nil; the slot is
// recycled under a new generation.
func (t *handleTable) release(h Handle) bool {
	if h == 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := h.slot() - 1
	if int(idx) >= len(t.slots) || t.slots[idx].gen != h.gen() || t.slots[idx].win == nil {
		return false
	}
	t.slots[idx].win = nil
	t.slots[idx].gen++
	t.free = append(t.free, idx)
	return true
}

func (t *handleTable) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, s := range t.slots {
		if s.win != nil {
			n++
		}
	}
	return n
}
