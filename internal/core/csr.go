package core

// csr.go implements §4.3's control and status register file: a flat store indexed by 12-bit CSR
// address, with mstatus/sstatus mirroring and WARL masking on the CSRs that need it.

// CSR addresses recognised by the simulator, per §3.
const (
	CSRFflags   = 0x001
	CSRFrm      = 0x002
	CSRFcsr     = 0x003
	CSRSstatus  = 0x100
	CSRSie      = 0x104
	CSRStvec    = 0x105
	CSRSepc     = 0x141
	CSRScause   = 0x142
	CSRStval    = 0x143
	CSRSip      = 0x144
	CSRSatp     = 0x180
	CSRStimecmp = 0x14d
	CSRMstatus  = 0x300
	CSRMisa     = 0x301
	CSRMedeleg  = 0x302
	CSRMideleg  = 0x303
	CSRMie      = 0x304
	CSRMtvec    = 0x305
	CSRMepc     = 0x341
	CSRMcause   = 0x342
	CSRMtval    = 0x343
	CSRMip      = 0x344
)

// mstatus bit layout (RV64 privileged spec, fields relevant to this simulator).
const (
	mstatusSIE  = Word(1 << 1)
	mstatusMIE  = Word(1 << 3)
	mstatusSPIE = Word(1 << 5)
	mstatusMPIE = Word(1 << 7)
	mstatusSPP  = Word(1 << 8)
	mstatusMPP  = Word(0b11 << 11)
	mstatusSUM  = Word(1 << 18)
	mstatusMXR  = Word(1 << 19)
	mstatusMPRV = Word(1 << 17)
	mstatusTW   = Word(1 << 21)

	// sstatusMask selects the bits of mstatus visible through sstatus; reads and writes of
	// either register must agree on these bits.
	sstatusMask = mstatusSIE | mstatusSPIE | mstatusSPP | mstatusSUM | mstatusMXR | Word(1<<63) // SD
)

// CSRFile is the flat control-and-status register store.
type CSRFile struct {
	regs map[uint16]Word

	// satpMode caches SATP.MODE (bits 63:60) so the MMU does not need to re-decode it per
	// access.
	satpMode uint8
}

// NewCSRFile creates a CSR file in its reset state: misa reflects RV64IMAFDC plus the S and U
// modes; mstatus and all other registers read as zero until written.
func NewCSRFile() *CSRFile {
	f := &CSRFile{regs: make(map[uint16]Word)}

	// misa: MXL=2 (XLEN=64) in bits 63:62, extension bits for I M A F D C S U.
	misa := Word(2)<<62 | extBit('I') | extBit('M') | extBit('A') | extBit('F') | extBit('D') | extBit('C') | extBit('S') | extBit('U')
	f.regs[CSRMisa] = misa

	return f
}

func extBit(letter byte) Word {
	return 1 << (letter - 'A')
}

// Read returns the value of the named CSR, applying the appropriate read mask.
func (f *CSRFile) Read(addr uint16) Word {
	switch addr {
	case CSRSstatus:
		return f.regs[CSRMstatus] & sstatusMask
	case CSRSie:
		return f.regs[CSRMie] & f.regs[CSRMideleg]
	case CSRSip:
		return f.regs[CSRMip] & f.regs[CSRMideleg]
	case CSRFcsr:
		return (f.regs[CSRFrm] << 5) | (f.regs[CSRFflags] & 0x1f)
	default:
		return f.regs[addr]
	}
}

// Write applies WARL/WLRL masking and mstatus/sstatus mirroring per §4.3, then stores the
// resulting value.
func (f *CSRFile) Write(addr uint16, value Word) {
	switch addr {
	case CSRMstatus:
		f.writeMstatus(value)
	case CSRSstatus:
		// sstatus is a restricted view: merge the shared bits into mstatus, leaving the rest
		// untouched, then re-derive mstatus's dependent state.
		merged := (f.regs[CSRMstatus] &^ sstatusMask) | (value & sstatusMask)
		f.writeMstatus(merged)
	case CSRMisa:
		// Refuses to toggle extensions at runtime, per §4.3.
	case CSRSie:
		f.regs[CSRMie] = (f.regs[CSRMie] &^ f.regs[CSRMideleg]) | (value & f.regs[CSRMideleg])
	case CSRSip:
		f.regs[CSRMip] = (f.regs[CSRMip] &^ f.regs[CSRMideleg]) | (value & f.regs[CSRMideleg])
	case CSRSatp:
		f.regs[addr] = value
		f.satpMode = uint8(value >> 60)
	case CSRFcsr:
		f.regs[CSRFrm] = (value >> 5) & 0x7
		f.regs[CSRFflags] = value & 0x1f
	default:
		f.regs[addr] = value
	}
}

// writeMstatus stores value into mstatus, rounding an unsupported MPP code down to the nearest
// supported privilege, per §4.3.
func (f *CSRFile) writeMstatus(value Word) {
	mpp := Privilege((value & mstatusMPP) >> 11)
	if mpp > PrivilegeMachine {
		mpp = PrivilegeMachine
		value = (value &^ mstatusMPP) | (Word(mpp) << 11)
	}

	f.regs[CSRMstatus] = value
}

// SetBits ORs bits into the named CSR without going through Write's mirroring logic; used by the
// trap handler and MRET/SRET for field-at-a-time updates.
func (f *CSRFile) SetBits(addr uint16, mask Word) {
	f.regs[addr] |= mask
}

// ClearBits ANDs the complement of mask into the named CSR.
func (f *CSRFile) ClearBits(addr uint16, mask Word) {
	f.regs[addr] &^= mask
}

// MPRV reports mstatus.MPRV.
func (f *CSRFile) MPRV() bool { return f.regs[CSRMstatus]&mstatusMPRV != 0 }

// MPP reports mstatus.MPP as a Privilege.
func (f *CSRFile) MPP() Privilege { return Privilege((f.regs[CSRMstatus] & mstatusMPP) >> 11) }

// SUM reports mstatus.SUM.
func (f *CSRFile) SUM() bool { return f.regs[CSRMstatus]&mstatusSUM != 0 }

// MXR reports mstatus.MXR.
func (f *CSRFile) MXR() bool { return f.regs[CSRMstatus]&mstatusMXR != 0 }

// TW reports mstatus.TW.
func (f *CSRFile) TW() bool { return f.regs[CSRMstatus]&mstatusTW != 0 }

// SATPMode returns the cached SATP.MODE field (0 = bare, 8 = Sv39).
func (f *CSRFile) SATPMode() uint8 { return f.satpMode }

// SATPRootPPN returns the root page-table page number from SATP's low 44 bits.
func (f *CSRFile) SATPRootPPN() uint64 { return uint64(f.regs[CSRSatp]) & ((1 << 44) - 1) }

// SATPAsid returns the SATP ASID field.
func (f *CSRFile) SATPAsid() uint16 { return uint16(f.regs[CSRSatp]>>44) & 0xffff }

// EnterTrapS applies the Supervisor-mode CSR side effects of trap entry per §4.9 step 7.
func (f *CSRFile) EnterTrapS(cause, epc, tval Word, prevPriv Privilege) {
	f.regs[CSRScause] = cause
	f.regs[CSRSepc] = epc
	f.regs[CSRStval] = tval

	status := f.regs[CSRMstatus]

	if status&mstatusSIE != 0 {
		status |= mstatusSPIE
	} else {
		status &^= mstatusSPIE
	}

	status &^= mstatusSIE

	if prevPriv == PrivilegeUser {
		status &^= mstatusSPP
	} else {
		status |= mstatusSPP
	}

	f.regs[CSRMstatus] = status
}

// EnterTrapM applies the Machine-mode CSR side effects of trap entry per §4.9 step 8.
func (f *CSRFile) EnterTrapM(cause, epc, tval Word, prevPriv Privilege) {
	f.regs[CSRMcause] = cause
	f.regs[CSRMepc] = epc
	f.regs[CSRMtval] = tval

	status := f.regs[CSRMstatus]

	if status&mstatusMIE != 0 {
		status |= mstatusMPIE
	} else {
		status &^= mstatusMPIE
	}

	status &^= mstatusMIE
	status = (status &^ mstatusMPP) | (Word(prevPriv) << 11)

	f.regs[CSRMstatus] = status
}

// LeaveTrapS applies SRET's CSR side effects per §4.9 and returns the target privilege.
func (f *CSRFile) LeaveTrapS() (pc Word, target Privilege) {
	status := f.regs[CSRMstatus]
	spp := Privilege((status & mstatusSPP) >> 8)

	if status&mstatusSPIE != 0 {
		status |= mstatusSIE
	} else {
		status &^= mstatusSIE
	}

	status |= mstatusSPIE
	status &^= mstatusSPP // SPP := User

	f.regs[CSRMstatus] = status

	return f.regs[CSRSepc], spp
}

// LeaveTrapM applies MRET's CSR side effects per §4.9 and returns the target privilege.
func (f *CSRFile) LeaveTrapM() (pc Word, target Privilege) {
	status := f.regs[CSRMstatus]
	mpp := Privilege((status & mstatusMPP) >> 11)

	if status&mstatusMPIE != 0 {
		status |= mstatusMIE
	} else {
		status &^= mstatusMIE
	}

	status |= mstatusMPIE
	status = (status &^ mstatusMPP) | (Word(PrivilegeUser) << 11)

	f.regs[CSRMstatus] = status

	return f.regs[CSRMepc], mpp
}
