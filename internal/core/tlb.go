package core

// tlb.go implements §4.7's TLB: a small, fully-associative cache of recent translations, with
// separate ITLB and DTLB instances.

// TLBEntry maps a virtual page to a physical page, per §3.
type TLBEntry struct {
	valid bool

	// vpn is the page-aligned virtual address (the page-offset bits masked off per size), not a
	// shifted page number: Lookup compares it directly against an incoming address masked the
	// same way.
	vpn     uint64
	ppn     uint64
	r, w, x bool
	u       bool
	global  bool
	asid    uint16
	size    PageSize

	// accessed/dirty mirror the PTE's A/D bits as observed at install time; the authoritative
	// copy lives in the page table and is updated by the walker directly.
	accessed bool
	dirty    bool
}

// TLB is a fully-associative, software-managed translation cache.
type TLB struct {
	entries []TLBEntry
	next    int // clock-hand for round-robin replacement
}

// NewTLB creates a TLB with the configured number of entries.
func NewTLB(size int) *TLB {
	if size <= 0 {
		size = 32
	}

	return &TLB{entries: make([]TLBEntry, size)}
}

func pageMask(size PageSize) uint64 {
	return size.Bytes() - 1
}

// Lookup searches for an entry covering vaddr for the given ASID, returning it and true on hit.
// A global entry matches regardless of ASID.
func (t *TLB) Lookup(vaddr uint64, asid uint16) (TLBEntry, bool) {
	for _, e := range t.entries {
		if !e.valid {
			continue
		}

		if !e.global && e.asid != asid {
			continue
		}

		mask := pageMask(e.size)
		if e.vpn == (vaddr &^ mask) {
			return e, true
		}
	}

	return TLBEntry{}, false
}

// Insert installs an entry, evicting round-robin when full.
func (t *TLB) Insert(e TLBEntry) {
	mask := pageMask(e.size)
	e.vpn &^= mask
	e.valid = true

	t.entries[t.next] = e
	t.next = (t.next + 1) % len(t.entries)
}

// Flush invalidates every entry, per §4.7's SFENCE.VMA/SATP-write contract.
func (t *TLB) Flush() {
	for i := range t.entries {
		t.entries[i] = TLBEntry{}
	}
}
