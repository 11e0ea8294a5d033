package shimtls

import "sync"

// handleMagic marks a live arena slot. It is zeroed when the slot is
// retired so a freed handle whose bits are replayed fails the magic check
// even before the generation comparison.
const handleMagic uint32 = 0xc0d4c5a9

type handleKind uint8

const (
	kindFree handleKind = iota
	kindMethod
	kindCtx
	kindSSL
)

// MethodHandle is an opaque reference to a TLS method object.
type MethodHandle uint64

// CtxHandle is an opaque reference to a context object.
type CtxHandle uint64

// SSLHandle is an opaque reference to a single TLS session.
type SSLHandle uint64

// slot holds one live object. The generation counter is bumped on every
// retire, so a stale handle referencing a recycled slot never validates.
type slot struct {
	magic uint32
	kind  handleKind
	gen   uint32
	obj   any
}

// handleArena owns every object handed across the boundary. Callers only
// ever see packed index+generation integers, never addresses, so there is
// no pointer for a misbehaving caller to dangle.
type handleArena struct {
	mu    sync.Mutex
	slots []slot
	free  []uint32
}

var handles = &handleArena{}

// pack encodes a slot index and generation into a handle. Index zero is
// reserved so the zero handle is always invalid.
func pack(idx uint32, gen uint32) uint64 {
	return uint64(gen)<<32 | uint64(idx+1)
}

func unpack(h uint64) (idx uint32, gen uint32, ok bool) {
	if h == 0 || uint32(h) == 0 {
		return 0, 0, false
	}
	return uint32(h) - 1, uint32(h >> 32), true
}

// put stores obj and returns its packed handle.
func (a *handleArena) put(kind handleKind, obj any) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.magic = handleMagic
	s.kind = kind
	s.obj = obj
	return pack(idx, s.gen)
}

// get validates the handle and returns the object it references. A zero
// handle, wrong magic, wrong kind, or stale generation all fail silently;
// the caller reports the kind-appropriate failure sentinel without touching
// the error registry.
func (a *handleArena) get(h uint64, kind handleKind) (any, bool) {
	idx, gen, ok := unpack(h)
	if !ok {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx >= uint32(len(a.slots)) {
		return nil, false
	}
	s := &a.slots[idx]
	if s.magic != handleMagic || s.kind != kind || s.gen != gen {
		return nil, false
	}
	return s.obj, true
}

// retire validates the handle, removes the object from the arena, and
// returns it so the caller can release its resources. The slot's
// generation is bumped and its magic cleared, invalidating every
// outstanding copy of the handle.
func (a *handleArena) retire(h uint64, kind handleKind) (any, bool) {
	idx, gen, ok := unpack(h)
	if !ok {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx >= uint32(len(a.slots)) {
		return nil, false
	}
	s := &a.slots[idx]
	if s.magic != handleMagic || s.kind != kind || s.gen != gen {
		return nil, false
	}
	obj := s.obj
	s.magic = 0
	s.kind = kindFree
	s.obj = nil
	s.gen++
	a.free = append(a.free, idx)
	return obj, true
}
