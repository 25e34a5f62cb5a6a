package core

import "rv64sim/internal/log"

// mmu.go implements §4.7's SV39 translation contract: the seven-step TLB/walk/permission
// sequence shared by the fetch and memory stages. Grounded on the teacher's Memory type
// (internal/vm/mem.go) for the shape of a small stateful unit wrapping the bus, generalised from
// a flat 16-bit address space to a three-level software-walked page table.

const (
	sv39VPNBits  = 9
	sv39PTESize  = 8
	sv39PageBits = 12
)

const (
	pteV = 1 << 0
	pteR = 1 << 1
	pteW = 1 << 2
	pteX = 1 << 3
	pteU = 1 << 4
	pteG = 1 << 5
	pteA = 1 << 6
	pteD = 1 << 7
)

// TranslationResult is the outcome of a virtual-address translation, per §3: either a physical
// address and the cycles the walk cost, or a trap to raise instead.
type TranslationResult struct {
	Paddr       Word
	ExtraCycles uint32
	Trap        Trap
}

// MMU performs SV39 translation for one access stream (instruction or data), backed by its own
// TLB and the shared bus used to read and write back page-table entries.
type MMU struct {
	tlb *TLB
	bus *Bus
	log *log.Logger
}

// NewMMU creates an MMU with its own TLB of the configured size, sharing the bus with the rest
// of the core.
func NewMMU(tlbSize int, bus *Bus) *MMU {
	return &MMU{tlb: NewTLB(tlbSize), bus: bus, log: log.DefaultLogger()}
}

// Flush invalidates the TLB, per an SFENCE.VMA or a write to SATP.
func (m *MMU) Flush() { m.tlb.Flush() }

func accessFaultKind(at AccessType) TrapKind {
	switch at {
	case AccessFetch:
		return TrapInstructionAccessFault
	case AccessStore:
		return TrapStoreAccessFault
	default:
		return TrapLoadAccessFault
	}
}

func pageFaultKind(at AccessType) TrapKind {
	switch at {
	case AccessFetch:
		return TrapInstructionPageFault
	case AccessStore:
		return TrapStorePageFault
	default:
		return TrapLoadPageFault
	}
}

func faultResult(kind TrapKind, vaddr Word) TranslationResult {
	return TranslationResult{Trap: Trap{Kind: kind, Addr: vaddr}}
}

// Translate implements §4.7's translation contract for one access.
func (m *MMU) Translate(vaddr Word, at AccessType, priv Privilege, csr *CSRFile) TranslationResult {
	// Step 1: Machine mode bypasses translation unless MPRV redirects a load/store through the
	// previous privilege (fetches are never affected by MPRV).
	if priv == PrivilegeMachine {
		if at == AccessFetch || !csr.MPRV() {
			return TranslationResult{Paddr: vaddr}
		}

		priv = csr.MPP()
		if priv == PrivilegeMachine {
			return TranslationResult{Paddr: vaddr}
		}
	}

	// Step 2: bare mode is the identity.
	if csr.SATPMode() == 0 {
		return TranslationResult{Paddr: vaddr}
	}

	// Step 3: canonical-address check.
	top := uint64(vaddr) >> 38
	if top != 0 && top != (1<<26)-1 {
		return faultResult(accessFaultKind(at), vaddr)
	}

	asid := csr.SATPAsid()

	if e, ok := m.tlb.Lookup(uint64(vaddr), asid); ok {
		if !m.permitted(e, at, priv, csr) {
			return faultResult(pageFaultKind(at), vaddr)
		}

		paddr := (e.ppn << sv39PageBits) | (uint64(vaddr) & pageMask(e.size))

		return TranslationResult{Paddr: Word(paddr), ExtraCycles: 1}
	}

	return m.walk(vaddr, at, priv, csr, asid)
}

func (m *MMU) permitted(e TLBEntry, at AccessType, priv Privilege, csr *CSRFile) bool {
	switch at {
	case AccessFetch:
		if !e.x {
			return false
		}

		if e.u && priv != PrivilegeUser {
			return false
		}

		if !e.u && priv == PrivilegeUser {
			return false
		}

		return true
	case AccessLoad:
		readable := e.r || (e.x && csr.MXR())

		return readable && m.userPagePermitted(e, priv, csr)
	default: // AccessStore
		return e.w && m.userPagePermitted(e, priv, csr)
	}
}

func (m *MMU) userPagePermitted(e TLBEntry, priv Privilege, csr *CSRFile) bool {
	if e.u {
		if priv == PrivilegeUser {
			return true
		}

		return priv == PrivilegeSupervisor && csr.SUM()
	}

	return priv != PrivilegeUser
}

func (m *MMU) walk(vaddr Word, at AccessType, priv Privilege, csr *CSRFile, asid uint16) TranslationResult {
	m.log.Debug("tlb miss, walking page table", "vaddr", vaddr, "access", at)

	va := uint64(vaddr)
	vpn := [3]uint64{
		(va >> 12) & 0x1ff,
		(va >> 21) & 0x1ff,
		(va >> 30) & 0x1ff,
	}

	base := csr.SATPRootPPN() << sv39PageBits
	var cycles uint32

	for level := 2; level >= 0; level-- {
		pteAddr := base + vpn[level]*sv39PTESize
		pte := m.bus.ReadU64(pteAddr)
		cycles += 4

		if pte&pteV == 0 {
			return faultResult(pageFaultKind(at), vaddr)
		}

		isLeaf := pte&(pteR|pteW|pteX) != 0

		if !isLeaf {
			if level == 0 {
				return faultResult(pageFaultKind(at), vaddr)
			}

			base = (pte >> 10) << sv39PageBits

			continue
		}

		ppn := pte >> 10

		// A super-page leaf must have its low-order PPN bits zero for every level above 0.
		for l := 0; l < level; l++ {
			if (ppn>>(uint(l)*sv39VPNBits))&0x1ff != 0 {
				return faultResult(pageFaultKind(at), vaddr)
			}
		}

		size := PageSize4K
		switch level {
		case 1:
			size = PageSize2M
		case 2:
			size = PageSize1G
		}

		entry := TLBEntry{
			vpn:    va,
			ppn:    ppn,
			r:      pte&pteR != 0,
			w:      pte&pteW != 0,
			x:      pte&pteX != 0,
			u:      pte&pteU != 0,
			global: pte&pteG != 0,
			asid:   asid,
			size:   size,
		}

		if !m.permitted(entry, at, priv, csr) {
			return faultResult(pageFaultKind(at), vaddr)
		}

		updated := pte | pteA
		if at == AccessStore {
			updated |= pteD
		}

		if updated != pte {
			m.bus.WriteU64(pteAddr, updated)
		}

		entry.accessed = true
		entry.dirty = at == AccessStore
		m.tlb.Insert(entry)

		pageOffset := va & pageMask(size)
		paddr := (ppn << sv39PageBits) & ^pageMask(size) | pageOffset

		return TranslationResult{Paddr: Word(paddr), ExtraCycles: cycles}
	}

	return faultResult(pageFaultKind(at), vaddr)
}
