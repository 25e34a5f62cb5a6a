package core

import "rv64sim/internal/log"

// hierarchy.go composes the per-level caches into the chains described in §4.5: a fetch access
// walks L1I -> L2 -> L3 -> RAM; a data access walks L1D -> L2 -> L3 -> RAM.

// Hierarchy is the cache-hierarchy composer sitting between the pipeline and main memory.
type Hierarchy struct {
	l1i, l1d, l2, l3 *Cache
	mem              MainMemory
	log              *log.Logger
}

// NewHierarchy builds a hierarchy from the configured levels. A disabled level is skipped in its
// chain (its Access is never called, so every request passes straight through to the next
// level).
func NewHierarchy(cfg CacheTiers, mem MainMemory) *Hierarchy {
	h := &Hierarchy{mem: mem, log: log.DefaultLogger()}

	if cfg.L1I.Enabled {
		h.l1i = NewCache("L1I", cfg.L1I)
	}

	if cfg.L1D.Enabled {
		h.l1d = NewCache("L1D", cfg.L1D)
	}

	if cfg.L2.Enabled {
		h.l2 = NewCache("L2", cfg.L2)
	}

	if cfg.L3.Enabled {
		h.l3 = NewCache("L3", cfg.L3)
	}

	return h
}

// AccessFetch walks the instruction-fetch chain and returns the accumulated latency, per §4.5.
func (h *Hierarchy) AccessFetch(paddr uint64) uint32 {
	return h.walk(paddr, false, h.l1i)
}

// AccessData walks the data-access chain and returns the accumulated latency.
func (h *Hierarchy) AccessData(paddr uint64, isWrite bool) uint32 {
	return h.walk(paddr, isWrite, h.l1d)
}

func (h *Hierarchy) walk(paddr uint64, isWrite bool, l1 *Cache) uint32 {
	var total uint32

	levels := []*Cache{l1, h.l2, h.l3}

	for _, lvl := range levels {
		if lvl == nil {
			continue
		}

		hit, cycles := lvl.Access(paddr, isWrite)
		total += cycles

		if hit {
			return total
		}
	}

	h.log.Debug("cache miss, accessing main memory", "paddr", paddr, "write", isWrite)
	total += h.mem.Access(paddr, isWrite)

	return total
}

// FlushL1 invalidates both L1 caches, used by FENCE.I and SFENCE.VMA per §4.8's Execute stage.
func (h *Hierarchy) FlushL1() {
	if h.l1i != nil {
		h.l1i.Flush()
	}

	if h.l1d != nil {
		h.l1d.Flush()
	}
}

// L1D exposes the data cache directly, for load-reservation bookkeeping.
func (h *Hierarchy) L1D() *Cache { return h.l1d }

// L1I exposes the instruction cache directly.
func (h *Hierarchy) L1I() *Cache { return h.l1i }

// L2 exposes the unified second-level cache, if enabled.
func (h *Hierarchy) L2() *Cache { return h.l2 }

// L3 exposes the unified third-level cache, if enabled.
func (h *Hierarchy) L3() *Cache { return h.l3 }
