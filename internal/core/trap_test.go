package core

import "testing"

func TestTrapHandler_MachineModeDefaultNoDelegation(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRMtvec, 0x8000_0100)
	h := NewTrapHandler(csr)

	newPriv, newPC, err := h.Enter(Trap{Kind: TrapIllegalInstruction, Encoding: 0xdead}, 0x8000_0010, PrivilegeMachine)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if newPriv != PrivilegeMachine || newPC != 0x8000_0100 {
		t.Errorf("Enter = (%v, %#x), want (Machine, 0x80000100)", newPriv, newPC)
	}

	if got := csr.Read(CSRMepc); got != 0x8000_0010 {
		t.Errorf("mepc = %#x, want 0x80000010", got)
	}

	if got := csr.Read(CSRMcause); got != exceptionCode[TrapIllegalInstruction] {
		t.Errorf("mcause = %d, want %d", got, exceptionCode[TrapIllegalInstruction])
	}

	if got := csr.Read(CSRMtval); got != 0xdead {
		t.Errorf("mtval = %#x, want 0xdead", got)
	}
}

func TestTrapHandler_DelegatesToSupervisorWhenMedelegSet(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRStvec, 0x8000_0200)
	csr.Write(CSRMedeleg, 1<<exceptionCode[TrapLoadPageFault])
	h := NewTrapHandler(csr)

	newPriv, newPC, err := h.Enter(Trap{Kind: TrapLoadPageFault, Addr: 0x1234}, 0x8000_0020, PrivilegeUser)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if newPriv != PrivilegeSupervisor || newPC != 0x8000_0200 {
		t.Errorf("Enter = (%v, %#x), want (Supervisor, 0x80000200)", newPriv, newPC)
	}

	if got := csr.Read(CSRSepc); got != 0x8000_0020 {
		t.Errorf("sepc = %#x, want 0x80000020", got)
	}

	if got := csr.Read(CSRStval); got != 0x1234 {
		t.Errorf("stval = %#x, want 0x1234", got)
	}
}

func TestTrapHandler_MachineModeTrapNeverDelegates(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRMtvec, 0x8000_0300)
	csr.Write(CSRMedeleg, 1<<exceptionCode[TrapLoadPageFault]) // delegated in general, but priv > S

	h := NewTrapHandler(csr)

	newPriv, _, err := h.Enter(Trap{Kind: TrapLoadPageFault}, 0x8000_0020, PrivilegeMachine)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if newPriv != PrivilegeMachine {
		t.Errorf("a trap taken from machine mode must never delegate to supervisor, got %v", newPriv)
	}
}

func TestTrapHandler_DoubleFaultWhenVectorEqualsEPC(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRMtvec, 0x8000_0010)
	h := NewTrapHandler(csr)

	_, _, err := h.Enter(Trap{Kind: TrapIllegalInstruction}, 0x8000_0010, PrivilegeMachine)
	if err != ErrDoubleFault {
		t.Errorf("Enter err = %v, want ErrDoubleFault", err)
	}
}

func TestTrapHandler_VectoredInterruptOffsetsByCause(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRMtvec, 0x8000_0000|1) // vectored mode
	h := NewTrapHandler(csr)

	_, newPC, err := h.Enter(Trap{Kind: TrapTimerInterruptM}, 0x8000_1000, PrivilegeMachine)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	want := Word(0x8000_0000) + 4*interruptCode[TrapTimerInterruptM]
	if newPC != want {
		t.Errorf("newPC = %#x, want %#x", newPC, want)
	}
}

func TestTrapHandler_MRETRestoresPriorPrivilegeAndPC(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	h := NewTrapHandler(csr)

	_, _, err := h.Enter(Trap{Kind: TrapBreakpoint}, 0x8000_0050, PrivilegeUser)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	newPriv, newPC := h.MRET()
	if newPriv != PrivilegeUser {
		t.Errorf("MRET restored priv = %v, want User", newPriv)
	}

	if newPC != 0x8000_0050 {
		t.Errorf("MRET restored pc = %#x, want 0x80000050", newPC)
	}
}

func TestTrapHandler_SRETRestoresPriorPrivilegeAndPC(t *testing.T) {
	t.Parallel()

	csr := NewCSRFile()
	csr.Write(CSRMedeleg, 1<<exceptionCode[TrapBreakpoint])
	h := NewTrapHandler(csr)

	_, _, err := h.Enter(Trap{Kind: TrapBreakpoint}, 0x8000_0060, PrivilegeUser)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}

	newPriv, newPC := h.SRET()
	if newPriv != PrivilegeUser {
		t.Errorf("SRET restored priv = %v, want User", newPriv)
	}

	if newPC != 0x8000_0060 {
		t.Errorf("SRET restored pc = %#x, want 0x80000060", newPC)
	}
}
