package core

import "testing"

func TestTLB_InsertAndLookup(t *testing.T) {
	t.Parallel()

	tlb := NewTLB(4)

	e := TLBEntry{vpn: 0x1000000, ppn: 0x2000, r: true, w: true, x: false, asid: 1, size: PageSize4K}
	tlb.Insert(e)

	got, ok := tlb.Lookup(0x1000123, 1)
	if !ok {
		t.Fatalf("expected a hit for an address within the installed page")
	}

	if got.ppn != 0x2000 || !got.r || !got.w {
		t.Errorf("looked-up entry incorrect: %+v", got)
	}

	if _, ok := tlb.Lookup(0x1000123, 2); ok {
		t.Errorf("a non-global entry must not match a different ASID")
	}
}

func TestTLB_GlobalEntryIgnoresASID(t *testing.T) {
	t.Parallel()

	tlb := NewTLB(4)
	tlb.Insert(TLBEntry{vpn: 0x4000000, ppn: 0x5000, r: true, global: true, asid: 7, size: PageSize4K})

	if _, ok := tlb.Lookup(0x4000000, 99); !ok {
		t.Errorf("a global entry should match regardless of ASID")
	}
}

func TestTLB_Flush(t *testing.T) {
	t.Parallel()

	tlb := NewTLB(2)
	tlb.Insert(TLBEntry{vpn: 0x1000000, ppn: 0x2000, r: true, asid: 0, size: PageSize4K})
	tlb.Flush()

	if _, ok := tlb.Lookup(0x1000000, 0); ok {
		t.Errorf("lookup after Flush should miss")
	}
}

func TestTLB_RoundRobinEviction(t *testing.T) {
	t.Parallel()

	tlb := NewTLB(2)
	tlb.Insert(TLBEntry{vpn: 0x1000, ppn: 0x10, r: true, asid: 0, size: PageSize4K})
	tlb.Insert(TLBEntry{vpn: 0x2000, ppn: 0x20, r: true, asid: 0, size: PageSize4K})
	tlb.Insert(TLBEntry{vpn: 0x3000, ppn: 0x30, r: true, asid: 0, size: PageSize4K}) // evicts slot 0

	if _, ok := tlb.Lookup(0x1000, 0); ok {
		t.Errorf("the first entry should have been round-robin evicted")
	}

	if _, ok := tlb.Lookup(0x2000, 0); !ok {
		t.Errorf("the second entry should still be resident")
	}
}

func TestTLB_SuperpageAlignment(t *testing.T) {
	t.Parallel()

	tlb := NewTLB(4)
	tlb.Insert(TLBEntry{vpn: 0x200000, ppn: 0x1, r: true, asid: 0, size: PageSize2M})

	if _, ok := tlb.Lookup(0x2abcde, 0); !ok {
		t.Errorf("a 2M entry should match any address within the superpage, not just the base")
	}
}
