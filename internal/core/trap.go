package core

// trap.go implements §3's Trap tagged variant and §4.9's trap handler, adapted from the teacher's
// internal/vm/intr.go trap taxonomy (the LC-3's single ACV/interrupt set) to the full RISC-V cause
// space. Unlike the teacher's error-implementing trap type, Trap here is plain data.

import (
	"fmt"

	"rv64sim/internal/log"
)

// TrapKind names a synchronous exception or asynchronous interrupt variant, per §3.
type TrapKind uint8

const (
	TrapNone TrapKind = iota

	// Synchronous exceptions.
	TrapInstructionAddressMisaligned
	TrapInstructionAccessFault
	TrapIllegalInstruction
	TrapBreakpoint
	TrapLoadAddressMisaligned
	TrapLoadAccessFault
	TrapStoreAddressMisaligned
	TrapStoreAccessFault
	TrapEnvironmentCallFromU
	TrapEnvironmentCallFromS
	TrapEnvironmentCallFromM
	TrapInstructionPageFault
	TrapLoadPageFault
	TrapStorePageFault

	// Asynchronous interrupts.
	TrapSoftwareInterruptU
	TrapSoftwareInterruptS
	TrapSoftwareInterruptM
	TrapTimerInterruptU
	TrapTimerInterruptS
	TrapTimerInterruptM
	TrapExternalInterruptU
	TrapExternalInterruptS
	TrapExternalInterruptM

	// Implementation-defined variants named in §3.
	TrapRequested
	TrapDoubleFault
)

//go:generate go run golang.org/x/tools/cmd/stringer -type TrapKind -output trapkind_string.go

// exceptionCode is the RISC-V privileged-spec cause number for each synchronous exception
// variant (the low bits of mcause/scause when the interrupt bit is clear).
var exceptionCode = map[TrapKind]Word{
	TrapInstructionAddressMisaligned: 0,
	TrapInstructionAccessFault:       1,
	TrapIllegalInstruction:           2,
	TrapBreakpoint:                   3,
	TrapLoadAddressMisaligned:        4,
	TrapLoadAccessFault:              5,
	TrapStoreAddressMisaligned:       6,
	TrapStoreAccessFault:             7,
	TrapEnvironmentCallFromU:         8,
	TrapEnvironmentCallFromS:         9,
	TrapEnvironmentCallFromM:         11,
	TrapInstructionPageFault:         12,
	TrapLoadPageFault:                13,
	TrapStorePageFault:               15,
}

// interruptCode is the cause number for each asynchronous interrupt variant.
var interruptCode = map[TrapKind]Word{
	TrapSoftwareInterruptU: 0,
	TrapSoftwareInterruptS: 1,
	TrapSoftwareInterruptM: 3,
	TrapTimerInterruptU:    4,
	TrapTimerInterruptS:    5,
	TrapTimerInterruptM:    7,
	TrapExternalInterruptU: 8,
	TrapExternalInterruptS: 9,
	TrapExternalInterruptM: 11,
}

// IsInterrupt reports whether k is an asynchronous interrupt rather than a synchronous
// exception.
func (k TrapKind) IsInterrupt() bool {
	_, ok := interruptCode[k]
	return ok
}

// Code returns the RISC-V cause-register code for k, with the interrupt bit set for interrupt
// variants.
func (k TrapKind) Code() Word {
	if code, ok := interruptCode[k]; ok {
		return code | (1 << 63)
	}

	return exceptionCode[k]
}

// Trap is a tagged variant naming a taken exception or interrupt, per §3. It is data carried on
// a pipeline latch, not a Go error; the trap handler in §4.9 is the only code that interprets
// it.
type Trap struct {
	Kind TrapKind

	// Addr is the faulting virtual address, set for every address-bearing variant.
	Addr Word

	// Encoding is the offending raw instruction bits, set for TrapIllegalInstruction.
	Encoding uint32

	// ExitCode is the host exit code carried by TrapRequested: a0 of a direct-mode SYS_EXIT
	// ECALL, or the code passed to CPU.RequestTrap.
	ExitCode int
}

func (t Trap) String() string {
	return fmt.Sprintf("TRAP(%s addr=%#x)", t.Kind, t.Addr)
}

// IsZero reports whether t carries no trap.
func (t Trap) IsZero() bool { return t.Kind == TrapNone }

// isECALL reports whether k is one of the three environment-call variants, the one trap that
// direct mode's no-OS convention still delegates instead of converting to an immediate exit
// (SYS_EXIT dispatch happens in the execute stage before a non-exit ECALL ever reaches here).
func (k TrapKind) isECALL() bool {
	switch k {
	case TrapEnvironmentCallFromU, TrapEnvironmentCallFromS, TrapEnvironmentCallFromM:
		return true
	default:
		return false
	}
}

// exitCodeDoubleFault is the host exit code for a double fault, per §7: the simulator can make no
// further progress once the trap handler itself faults, so it aborts rather than looping.
const exitCodeDoubleFault = 102

// tval computes the value written to mtval/stval on trap entry, per §4.9 step 6.
func (t Trap) tval() Word {
	switch t.Kind {
	case TrapInstructionAddressMisaligned, TrapInstructionAccessFault,
		TrapLoadAddressMisaligned, TrapLoadAccessFault,
		TrapStoreAddressMisaligned, TrapStoreAccessFault,
		TrapInstructionPageFault, TrapLoadPageFault, TrapStorePageFault:
		return t.Addr
	case TrapIllegalInstruction:
		return Word(t.Encoding)
	default:
		return 0
	}
}

// TrapHandler centralises delegation logic and CSR updates per §4.9. It holds no pipeline
// state of its own; Enter is called by the writeback stage with the CPU's current privilege and
// EPC.
type TrapHandler struct {
	csr *CSRFile
	log *log.Logger
}

// NewTrapHandler creates a trap handler over the given CSR file.
func NewTrapHandler(csr *CSRFile) *TrapHandler {
	return &TrapHandler{csr: csr, log: log.DefaultLogger()}
}

// Enter processes trap entry per §4.9 steps 3-9, returning the new privilege and PC, or
// ErrDoubleFault if the resolved handler PC equals the incoming EPC.
func (h *TrapHandler) Enter(t Trap, epc Word, priv Privilege) (newPriv Privilege, newPC Word, err error) {
	delegate := h.delegateToS(t, priv)

	var vec Word
	if delegate {
		vec = h.csr.Read(CSRStvec)
	} else {
		vec = h.csr.Read(CSRMtvec)
	}

	target := vec &^ 0b11
	if vec&0b11 == 1 && t.Kind.IsInterrupt() {
		target = (vec &^ 0b11) + 4*(t.Kind.Code()&^(1<<63))
	}

	if target == epc {
		h.log.Error("fatal diagnostic: double fault", "cause", t.Kind, "epc", epc)
		return priv, 0, ErrDoubleFault
	}

	tval := t.tval()

	if delegate {
		h.csr.EnterTrapS(t.Kind.Code(), epc, tval, priv)
		h.log.Debug("trap entry", "cause", t.Kind, "delegate", true, "epc", epc, "target", target)

		return PrivilegeSupervisor, target, nil
	}

	h.csr.EnterTrapM(t.Kind.Code(), epc, tval, priv)
	h.log.Debug("trap entry", "cause", t.Kind, "delegate", false, "epc", epc, "target", target)

	return PrivilegeMachine, target, nil
}

// delegateToS implements §4.9 step 4.
func (h *TrapHandler) delegateToS(t Trap, priv Privilege) bool {
	if priv > PrivilegeSupervisor {
		return false
	}

	code := t.Kind.Code() &^ (1 << 63)

	if t.Kind.IsInterrupt() {
		return h.csr.Read(CSRMideleg)&(1<<code) != 0
	}

	return h.csr.Read(CSRMedeleg)&(1<<code) != 0
}

// MRET processes a MRET instruction per §4.9's final paragraph.
func (h *TrapHandler) MRET() (newPriv Privilege, newPC Word) {
	pc, target := h.csr.LeaveTrapM()
	return target, pc
}

// SRET processes a SRET instruction per §4.9's final paragraph.
func (h *TrapHandler) SRET() (newPriv Privilege, newPC Word) {
	pc, target := h.csr.LeaveTrapS()
	return target, pc
}
