package core

import (
	"testing"

	"rv64sim/internal/isa"
)

func TestStats_RetireClass(t *testing.T) {
	t.Parallel()

	s := NewStats()

	s.RetireClass(isa.OpADD)
	s.RetireClass(isa.OpLW)
	s.RetireClass(isa.OpSW)
	s.RetireClass(isa.OpBEQ)
	s.RetireClass(isa.OpECALL)
	s.RetireClass(isa.OpFADDD)

	if s.InstructionsRetired != 6 {
		t.Errorf("InstructionsRetired = %d, want 6", s.InstructionsRetired)
	}

	if s.ArithmeticRetired != 1 || s.LoadsRetired != 1 || s.StoresRetired != 1 ||
		s.BranchesRetired != 1 || s.SystemRetired != 1 || s.FPRetired != 1 {
		t.Errorf("per-class counters incorrect: %+v", s)
	}

	hist := s.OpcodeHistogram()
	if hist[isa.OpADD] != 1 {
		t.Errorf("histogram[ADD] = %d, want 1", hist[isa.OpADD])
	}
}

func TestStats_CPI(t *testing.T) {
	t.Parallel()

	s := NewStats()

	if got := s.CPI(); got != 0 {
		t.Errorf("CPI with no retirements = %v, want 0", got)
	}

	s.Cycles = 10
	s.RetireClass(isa.OpADD)
	s.RetireClass(isa.OpADD)

	if got := s.CPI(); got != 5 {
		t.Errorf("CPI = %v, want 5", got)
	}
}

func TestStats_AccumulateCycleByPrivilege(t *testing.T) {
	t.Parallel()

	s := NewStats()

	s.AccumulateCycleByPrivilege(PrivilegeUser)
	s.AccumulateCycleByPrivilege(PrivilegeSupervisor)
	s.AccumulateCycleByPrivilege(PrivilegeMachine)
	s.AccumulateCycleByPrivilege(PrivilegeMachine)

	if s.Cycles != 4 {
		t.Errorf("Cycles = %d, want 4", s.Cycles)
	}

	if s.UserCycles != 1 || s.SupervisorCycles != 1 || s.MachineCycles != 2 {
		t.Errorf("per-mode counters incorrect: %+v", s)
	}
}
