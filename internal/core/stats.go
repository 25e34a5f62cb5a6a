package core

// stats.go implements §6's statistics snapshot plus the per-opcode retirement histogram and CPI
// computed method supplemented from original_source/crates/hardware/src/stats.rs, grounded on the
// teacher's plain-struct counters (internal/vm/vm.go tracks a handful of run counters in a
// similar style, generalised here into a per-class/per-mode breakdown; per-cache hit and miss
// counts live on each Cache, not here).

import "rv64sim/internal/isa"

// Stats is a snapshot of the simulator's running counters.
type Stats struct {
	Cycles             uint64
	InstructionsRetired uint64

	LoadsRetired      uint64
	StoresRetired     uint64
	BranchesRetired   uint64
	ArithmeticRetired uint64
	SystemRetired     uint64
	FPRetired         uint64

	UserCycles       uint64
	SupervisorCycles uint64
	MachineCycles    uint64

	MemoryStallCycles  uint64
	ControlStallCycles uint64
	DataStallCycles    uint64

	IFetchCycles uint64

	BranchPredictHits   uint64
	BranchPredictMisses uint64

	TrapsTaken uint64

	opcodeHistogram map[isa.Op]uint64
}

// NewStats creates a zeroed statistics counter set.
func NewStats() *Stats {
	return &Stats{opcodeHistogram: make(map[isa.Op]uint64)}
}

// RetireClass increments the per-class retirement counter matching op's instruction class.
func (s *Stats) RetireClass(op isa.Op) {
	s.InstructionsRetired++
	s.opcodeHistogram[op]++

	switch classify(op) {
	case classLoad:
		s.LoadsRetired++
	case classStore:
		s.StoresRetired++
	case classBranch:
		s.BranchesRetired++
	case classSystem:
		s.SystemRetired++
	case classFP:
		s.FPRetired++
	default:
		s.ArithmeticRetired++
	}
}

// AccumulateCycleByPrivilege charges one cycle to the per-mode counter matching priv.
func (s *Stats) AccumulateCycleByPrivilege(priv Privilege) {
	s.Cycles++

	switch priv {
	case PrivilegeUser:
		s.UserCycles++
	case PrivilegeSupervisor:
		s.SupervisorCycles++
	default:
		s.MachineCycles++
	}
}

// OpcodeHistogram returns the retirement count per opcode observed so far.
func (s *Stats) OpcodeHistogram() map[isa.Op]uint64 {
	out := make(map[isa.Op]uint64, len(s.opcodeHistogram))
	for k, v := range s.opcodeHistogram {
		out[k] = v
	}

	return out
}

// CPI computes cycles per retired instruction. It returns 0 if nothing has retired yet.
func (s *Stats) CPI() float64 {
	if s.InstructionsRetired == 0 {
		return 0
	}

	return float64(s.Cycles) / float64(s.InstructionsRetired)
}

type instrClass uint8

const (
	classArithmetic instrClass = iota
	classLoad
	classStore
	classBranch
	classSystem
	classFP
)

func classify(op isa.Op) instrClass {
	switch op {
	case isa.OpLB, isa.OpLBU, isa.OpLH, isa.OpLHU, isa.OpLW, isa.OpLWU, isa.OpLD,
		isa.OpFLW, isa.OpFLD, isa.OpLRW, isa.OpLRD:
		return classLoad
	case isa.OpSB, isa.OpSH, isa.OpSW, isa.OpSD, isa.OpFSW, isa.OpFSD,
		isa.OpSCW, isa.OpSCD,
		isa.OpAMOSWAPW, isa.OpAMOADDW, isa.OpAMOXORW, isa.OpAMOANDW, isa.OpAMOORW,
		isa.OpAMOMINW, isa.OpAMOMAXW, isa.OpAMOMINUW, isa.OpAMOMAXUW,
		isa.OpAMOSWAPD, isa.OpAMOADDD, isa.OpAMOXORD, isa.OpAMOANDD, isa.OpAMOORD,
		isa.OpAMOMIND, isa.OpAMOMAXD, isa.OpAMOMINUD, isa.OpAMOMAXUD:
		return classStore
	case isa.OpBEQ, isa.OpBNE, isa.OpBLT, isa.OpBGE, isa.OpBLTU, isa.OpBGEU,
		isa.OpJAL, isa.OpJALR:
		return classBranch
	case isa.OpECALL, isa.OpEBREAK, isa.OpMRET, isa.OpSRET, isa.OpWFI,
		isa.OpFENCE, isa.OpFENCEI, isa.OpSFENCEVMA,
		isa.OpCSRRW, isa.OpCSRRS, isa.OpCSRRC, isa.OpCSRRWI, isa.OpCSRRSI, isa.OpCSRRCI:
		return classSystem
	case isa.OpFADDS, isa.OpFADDD, isa.OpFSUBS, isa.OpFSUBD, isa.OpFMULS, isa.OpFMULD,
		isa.OpFDIVS, isa.OpFDIVD, isa.OpFSQRTS, isa.OpFSQRTD,
		isa.OpFMINS, isa.OpFMIND, isa.OpFMAXS, isa.OpFMAXD,
		isa.OpFMADDS, isa.OpFMADDD, isa.OpFMSUBS, isa.OpFMSUBD,
		isa.OpFNMADDS, isa.OpFNMADDD, isa.OpFNMSUBS, isa.OpFNMSUBD,
		isa.OpFSGNJS, isa.OpFSGNJD, isa.OpFSGNJNS, isa.OpFSGNJND, isa.OpFSGNJXS, isa.OpFSGNJXD,
		isa.OpFEQS, isa.OpFEQD, isa.OpFLTS, isa.OpFLTD, isa.OpFLES, isa.OpFLED,
		isa.OpFCLASSS, isa.OpFCLASSD,
		isa.OpFCVTWS, isa.OpFCVTWD, isa.OpFCVTWUS, isa.OpFCVTWUD,
		isa.OpFCVTLS, isa.OpFCVTLD, isa.OpFCVTLUS, isa.OpFCVTLUD,
		isa.OpFCVTSW, isa.OpFCVTDW, isa.OpFCVTSWU, isa.OpFCVTDWU,
		isa.OpFCVTSL, isa.OpFCVTDL, isa.OpFCVTSLU, isa.OpFCVTDLU,
		isa.OpFCVTSD, isa.OpFCVTDS,
		isa.OpFMVXW, isa.OpFMVXD, isa.OpFMVWX, isa.OpFMVDX:
		return classFP
	default:
		return classArithmetic
	}
}
