package core

import "testing"

func newMMUTestBus() *Bus {
	ram := NewMainMemory(MemoryConfig{Controller: MemoryControllerSimple}, 1, 1<<20)
	return NewBus(0, ram)
}

// writePTE writes a valid PTE at the given page-table address pointing at ppn with the given flag
// bits; with none of R/W/X set it is a pointer to the next-level table.
func writePTE(bus *Bus, addr uint64, ppn uint64, flags uint64) {
	bus.WriteU64(addr, (ppn<<10)|flags|pteV)
}

func TestMMU_MachineModeBypassesTranslation(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)
	csr := NewCSRFile()
	csr.Write(CSRSatp, Word(8)<<60) // Sv39, but machine mode ignores it

	res := mmu.Translate(0xdeadbeef, AccessLoad, PrivilegeMachine, csr)
	if res.Paddr != 0xdeadbeef || !res.Trap.IsZero() {
		t.Errorf("machine mode should bypass translation, got %+v", res)
	}
}

func TestMMU_BareModeIsIdentity(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)
	csr := NewCSRFile() // satp MODE defaults to 0 (bare)

	res := mmu.Translate(0x12345, AccessFetch, PrivilegeSupervisor, csr)
	if res.Paddr != 0x12345 || !res.Trap.IsZero() {
		t.Errorf("bare mode should be the address identity, got %+v", res)
	}
}

func TestMMU_NonCanonicalAddressFaults(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)
	csr := NewCSRFile()
	csr.Write(CSRSatp, Word(8)<<60)

	// Bits 63:38 must be all zero or all one; here they are a mix.
	res := mmu.Translate(Word(1)<<40, AccessLoad, PrivilegeSupervisor, csr)
	if res.Trap.IsZero() {
		t.Fatalf("expected an access fault for a non-canonical address")
	}

	if res.Trap.Kind != TrapLoadAccessFault {
		t.Errorf("Trap.Kind = %s, want %s", res.Trap.Kind, TrapLoadAccessFault)
	}
}

func TestMMU_WalkInstallsTLBEntryAndSetsAccessedBit(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)
	csr := NewCSRFile()

	const rootPPN = 0x10
	const leafPPN = 0x20
	const vaddr = Word(0x1000) // vpn[2]=0 vpn[1]=0 vpn[0]=1

	rootBase := rootPPN << sv39PageBits

	// vaddr's vpn[2] and vpn[1] are both 0, so the walk reads slot 0 of the root table at
	// levels 2 and 1; make that a non-leaf PTE pointing back at the same table so one page
	// serves all three levels. vpn[0] is 1, so the level-0 leaf lives at slot 1.
	writePTE(bus, rootBase+0*8, rootPPN, 0)
	writePTE(bus, rootBase+1*8, leafPPN, pteR|pteW|pteX)

	csr.Write(CSRSatp, (Word(8)<<60)|Word(rootPPN))

	res := mmu.Translate(vaddr, AccessLoad, PrivilegeSupervisor, csr)
	if !res.Trap.IsZero() {
		t.Fatalf("unexpected trap: %s", res.Trap)
	}

	wantPaddr := Word(leafPPN<<sv39PageBits) | (vaddr & 0xfff)
	if res.Paddr != wantPaddr {
		t.Errorf("Paddr = %#x, want %#x", res.Paddr, wantPaddr)
	}

	pte := bus.ReadU64(rootBase + 1*8)
	if pte&pteA == 0 {
		t.Errorf("walk should set the accessed bit on the leaf PTE")
	}

	if pte&pteD != 0 {
		t.Errorf("a load should not set the dirty bit")
	}

	// A second translation of the same page should now hit the TLB (ExtraCycles == 1) instead
	// of re-walking (ExtraCycles counts 4 per level visited).
	res2 := mmu.Translate(vaddr, AccessLoad, PrivilegeSupervisor, csr)
	if res2.ExtraCycles != 1 {
		t.Errorf("expected a TLB hit on the second translation, got ExtraCycles=%d", res2.ExtraCycles)
	}
}

func TestMMU_InvalidPTEFaults(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)
	csr := NewCSRFile()
	csr.Write(CSRSatp, Word(8)<<60) // root PPN 0, table left zeroed -> every PTE invalid

	res := mmu.Translate(0x1000, AccessLoad, PrivilegeSupervisor, csr)
	if res.Trap.Kind != TrapLoadPageFault {
		t.Errorf("Trap.Kind = %s, want %s", res.Trap.Kind, TrapLoadPageFault)
	}
}

func TestMMU_SFENCEFlushesTLB(t *testing.T) {
	t.Parallel()

	bus := newMMUTestBus()
	mmu := NewMMU(16, bus)

	mmu.tlb.Insert(TLBEntry{vpn: 0x1000, ppn: 1, r: true, size: PageSize4K})

	if _, ok := mmu.tlb.Lookup(0x1000, 0); !ok {
		t.Fatalf("setup: expected the manually inserted entry to be found")
	}

	mmu.Flush()

	if _, ok := mmu.tlb.Lookup(0x1000, 0); ok {
		t.Errorf("Flush should invalidate every TLB entry")
	}
}
