package core

import "rv64sim/internal/isa"

// stage_decode.go implements §4.8's Decode stage: field extraction (already done by isa.Decode at
// fetch time), control-signal generation, operand reads, NOP/zero-instruction suppression, and
// illegal-instruction detection.

const nopEncoding = 0x00000013 // addi x0, x0, 0

func controlSignalsFor(d isa.Decoded) ControlSignals {
	cs := ControlSignals{}

	switch classify(d.Op) {
	case classLoad:
		cs.MemRead = true
		cs.RegWrite = d.Op != isa.OpFLW && d.Op != isa.OpFLD
		cs.FPRegWrite = d.Op == isa.OpFLW || d.Op == isa.OpFLD
	case classStore:
		cs.MemWrite = true
		cs.IsAMO = isAMOOp(d.Op)

		if cs.IsAMO {
			cs.RegWrite = true
		}
	case classBranch:
		cs.IsBranch = d.Op != isa.OpJAL && d.Op != isa.OpJALR
		cs.IsJump = d.Op == isa.OpJAL || d.Op == isa.OpJALR
		cs.RegWrite = cs.IsJump && d.Rd != 0
	case classSystem:
		cs.IsSystem = true

		switch d.Op {
		case isa.OpCSRRW, isa.OpCSRRS, isa.OpCSRRC, isa.OpCSRRWI, isa.OpCSRRSI, isa.OpCSRRCI:
			cs.RegWrite = d.Rd != 0
		case isa.OpFENCE, isa.OpFENCEI, isa.OpSFENCEVMA:
			cs.IsFence = true
		}
	default:
		cs.RegWrite = d.Rd != 0
		cs.FPRegWrite = isFPArithmetic(d.Op)
	}

	if d.Op == isa.OpLRW || d.Op == isa.OpLRD {
		cs.MemRead = true
		cs.MemWrite = false
		cs.RegWrite = true
		cs.IsAMO = true
	}

	return cs
}

func isAMOOp(op isa.Op) bool {
	switch op {
	case isa.OpAMOSWAPW, isa.OpAMOADDW, isa.OpAMOXORW, isa.OpAMOANDW, isa.OpAMOORW,
		isa.OpAMOMINW, isa.OpAMOMAXW, isa.OpAMOMINUW, isa.OpAMOMAXUW,
		isa.OpAMOSWAPD, isa.OpAMOADDD, isa.OpAMOXORD, isa.OpAMOANDD, isa.OpAMOORD,
		isa.OpAMOMIND, isa.OpAMOMAXD, isa.OpAMOMINUD, isa.OpAMOMAXUD,
		isa.OpSCW, isa.OpSCD:
		return true
	}

	return false
}

func isFPArithmetic(op isa.Op) bool {
	return classify(op) == classFP && op != isa.OpFMVXW && op != isa.OpFMVXD &&
		op != isa.OpFCVTWS && op != isa.OpFCVTWD && op != isa.OpFCVTWUS && op != isa.OpFCVTWUD &&
		op != isa.OpFCVTLS && op != isa.OpFCVTLD && op != isa.OpFCVTLUS && op != isa.OpFCVTLUD &&
		op != isa.OpFEQS && op != isa.OpFEQD && op != isa.OpFLTS && op != isa.OpFLTD &&
		op != isa.OpFLES && op != isa.OpFLED && op != isa.OpFCLASSS && op != isa.OpFCLASSD
}

// decodeStage drains the IF/ID queue into a single ID/EX entry, per the single-issue baseline
// pipeline. Only the canonical NOP is consumed without producing an entry; the all-zero encoding
// decodes as OpIllegal like any other unrecognised opcode below, carrying Encoding 0 so direct
// mode can recognise "ran off the end of the program" and exit cleanly instead of faulting.
func (c *CPU) decodeStage() {
	if c.idex != nil || len(c.ifidQueue) == 0 {
		return
	}

	ifid := c.ifidQueue[0]
	c.ifidQueue = c.ifidQueue[1:]

	if !ifid.Trap.IsZero() {
		c.idex = &IDEXEntry{
			Valid: true, PC: ifid.PC, Raw: ifid.Raw, InstrSize: ifid.InstrSize,
			PredTaken: ifid.PredTaken, PredTarget: ifid.PredTarget, Trap: ifid.Trap,
		}

		return
	}

	if ifid.Raw == nopEncoding {
		return
	}

	d := isa.Decode(ifid.Raw)

	entry := &IDEXEntry{
		Valid: true, PC: ifid.PC, Raw: ifid.Raw, InstrSize: ifid.InstrSize,
		Decoded: d, Control: controlSignalsFor(d),
		PredTaken: ifid.PredTaken, PredTarget: ifid.PredTarget,
	}

	if d.Op == isa.OpIllegal {
		entry.Trap = Trap{Kind: TrapIllegalInstruction, Encoding: ifid.Raw}
		c.idex = entry

		return
	}

	if d.Op == isa.OpWFI && c.priv == PrivilegeUser {
		entry.Trap = Trap{Kind: TrapIllegalInstruction, Encoding: ifid.Raw}
		c.idex = entry

		return
	}

	if d.Op == isa.OpWFI && c.priv == PrivilegeSupervisor && c.csr.TW() {
		entry.Trap = Trap{Kind: TrapIllegalInstruction, Encoding: ifid.Raw}
		c.idex = entry

		return
	}

	entry.Rs1Val, entry.Rs2Val = c.readOperands(d)

	if c.loadUseHazard(d) {
		// Re-queue: decode cannot issue this cycle, stall the frontend.
		c.ifidQueue = append([]IFIDEntry{ifid}, c.ifidQueue...)
		c.idex = nil
		c.stalled = true

		return
	}

	c.idex = entry
}

func (c *CPU) readOperands(d isa.Decoded) (rs1, rs2 Word) {
	if classify(d.Op) == classFP || isFPArithmetic(d.Op) {
		rs1 = c.fpRegs.GetDouble(d.Rs1)
		rs2 = c.fpRegs.GetDouble(d.Rs2)

		return rs1, rs2
	}

	rs1 = c.intRegs.Get(d.Rs1)
	rs2 = c.intRegs.Get(d.Rs2)

	return rs1, rs2
}

// loadUseHazard detects the classic RAW stall: the instruction about to enter ID/EX needs a
// register that the load just ahead of it (now sitting in EX/MEM, result not ready until the
// memory stage) has not produced yet.
func (c *CPU) loadUseHazard(d isa.Decoded) bool {
	prev := c.exmem
	if prev == nil || !prev.Valid || !prev.Control.MemRead || !prev.Trap.IsZero() {
		return false
	}

	rd := prev.Decoded.Rd
	if rd == 0 {
		return false
	}

	return d.Rs1 == rd || d.Rs2 == rd
}
