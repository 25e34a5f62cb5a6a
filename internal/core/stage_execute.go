package core

import "rv64sim/internal/isa"

// stage_execute.go implements §4.8's Execute stage: forwarding, the special-instruction
// sequence (FENCE.I, MRET/SRET, WFI, SFENCE.VMA, ECALL, CSR ops), and ALU/FPU/branch dispatch.

func (c *CPU) executeStage() {
	idex := c.idex
	c.idex = nil

	if idex == nil || !idex.Valid {
		c.exmem = nil
		return
	}

	out := &EXMEMEntry{
		Valid: true, PC: idex.PC, Raw: idex.Raw, InstrSize: idex.InstrSize,
		Decoded: idex.Decoded, Control: idex.Control, Trap: idex.Trap,
	}

	if !idex.Trap.IsZero() {
		c.exmem = out
		return
	}

	d := idex.Decoded

	rs1, rs2 := c.forward(d, idex)

	switch {
	case d.Op == isa.OpFENCEI:
		c.hier.FlushL1()
		c.redirectFrontend(idex.PC + Word(idex.InstrSize))

		c.exmem = out

		return

	case d.Op == isa.OpMRET:
		newPriv, newPC := c.trapHandler.MRET()
		c.priv = newPriv
		c.redirectFrontend(newPC)
		c.exmem = out

		return

	case d.Op == isa.OpSRET:
		newPriv, newPC := c.trapHandler.SRET()
		c.priv = newPriv
		c.redirectFrontend(newPC)
		c.exmem = out

		return

	case d.Op == isa.OpWFI:
		c.waitingForInterrupt = true
		c.exmem = out

		return

	case d.Op == isa.OpSFENCEVMA:
		c.itlb.Flush()
		c.dtlb.Flush()
		c.hier.FlushL1()
		c.redirectFrontend(idex.PC + Word(idex.InstrSize))
		c.exmem = out

		return

	case d.Op == isa.OpECALL:
		// a0 and a7 may still be in flight, so they are read through the bypass sources too.
		a0, a7 := c.forward(isa.Decoded{Rs1: 10, Rs2: 17}, &IDEXEntry{Rs1Val: c.intRegs.Get(10), Rs2Val: c.intRegs.Get(17)})
		if c.directMode && a7 == sysExitSyscallNumber {
			out.Trap = Trap{Kind: TrapRequested, ExitCode: int(int64(a0))}
			c.exmem = out

			return
		}

		out.Trap = Trap{Kind: ecallKind(c.priv), Addr: idex.PC}
		c.exmem = out

		return

	case d.Op == isa.OpEBREAK:
		out.Trap = Trap{Kind: TrapBreakpoint, Addr: idex.PC}
		c.exmem = out

		return

	case isCSROp(d.Op):
		c.executeCSR(d, rs1, out)
		c.redirectFrontend(idex.PC + Word(idex.InstrSize))
		c.exmem = out

		return
	}

	switch classify(d.Op) {
	case classBranch:
		c.executeBranch(idex, d, rs1, rs2, out)
	case classFP:
		c.executeFP(d, rs1, rs2, out)
	case classLoad, classStore:
		out.ALUResult = ExecuteALU(d, rs1, 0, idex.PC)
		out.VAddr = rs1 + Word(d.Imm)
		out.StoreVal = rs2
	default:
		if isImmediateALUOp(d.Op) {
			rs2 = Word(d.Imm)
		}

		out.ALUResult = ExecuteALU(d, rs1, rs2, idex.PC)
	}

	c.exmem = out
}

const sysExitSyscallNumber = 93

func ecallKind(priv Privilege) TrapKind {
	switch priv {
	case PrivilegeUser:
		return TrapEnvironmentCallFromU
	case PrivilegeSupervisor:
		return TrapEnvironmentCallFromS
	default:
		return TrapEnvironmentCallFromM
	}
}

// isImmediateALUOp reports whether op's second ALU operand is the decoded immediate rather than
// the rs2 register value: the OP-IMM and OP-IMM-32 encodings carry no rs2 field at all, so the
// bits isa.Decode left in d.Rs2 for them are meaningless and must never reach the ALU.
func isImmediateALUOp(op isa.Op) bool {
	switch op {
	case isa.OpADDI, isa.OpSLTI, isa.OpSLTIU, isa.OpXORI, isa.OpORI, isa.OpANDI,
		isa.OpSLLI, isa.OpSRLI, isa.OpSRAI,
		isa.OpADDIW, isa.OpSLLIW, isa.OpSRLIW, isa.OpSRAIW:
		return true
	}

	return false
}

func isCSROp(op isa.Op) bool {
	switch op {
	case isa.OpCSRRW, isa.OpCSRRS, isa.OpCSRRC, isa.OpCSRRWI, isa.OpCSRRSI, isa.OpCSRRCI:
		return true
	}

	return false
}

func isCSRImmediateForm(op isa.Op) bool {
	return op == isa.OpCSRRWI || op == isa.OpCSRRSI || op == isa.OpCSRRCI
}

func (c *CPU) executeCSR(d isa.Decoded, rs1 Word, out *EXMEMEntry) {
	old := c.csr.Read(d.CSR)

	var src Word
	if isCSRImmediateForm(d.Op) {
		src = Word(d.Imm)
	} else {
		src = rs1
	}

	var newVal Word

	switch d.Op {
	case isa.OpCSRRW, isa.OpCSRRWI:
		newVal = src
	case isa.OpCSRRS, isa.OpCSRRSI:
		newVal = old | src
	case isa.OpCSRRC, isa.OpCSRRCI:
		newVal = old &^ src
	}

	// CSRRW(I) always writes; CSRRS/RC(I) only write when the source selector field (register
	// number, or the 5-bit zimm riding in the same field) is nonzero.
	writesAtAll := d.Op == isa.OpCSRRW || d.Op == isa.OpCSRRWI || d.Rs1 != 0
	if writesAtAll {
		c.csr.Write(d.CSR, newVal)

		if d.CSR == CSRSatp {
			c.itlb.Flush()
			c.dtlb.Flush()
		}
	}

	out.ALUResult = old
}

func (c *CPU) executeBranch(idex *IDEXEntry, d isa.Decoded, rs1, rs2 Word, out *EXMEMEntry) {
	switch d.Op {
	case isa.OpJAL:
		target := idex.PC + Word(d.Imm)
		out.IsLink = true
		out.LinkValue = idex.PC + Word(idex.InstrSize)
		c.resolveControlTransfer(idex, target)

	case isa.OpJALR:
		target := (rs1 + Word(d.Imm)) &^ 1
		out.IsLink = true
		out.LinkValue = idex.PC + Word(idex.InstrSize)

		if d.Rs1 == 1 && d.Rd == 0 {
			c.bpred.OnReturn()
		} else if d.Rd == 1 || d.Rd == 5 {
			c.bpred.OnCall(idex.PC, out.LinkValue, target)
		}

		c.resolveControlTransfer(idex, target)

	default:
		taken := BranchTaken(d, rs1, rs2)
		target := idex.PC + Word(d.Imm)

		c.bpred.UpdateBranch(idex.PC, taken, target)

		if taken != idex.PredTaken || (taken && target != idex.PredTarget) {
			c.stats.BranchPredictMisses++

			if taken {
				c.redirectFrontend(target)
			} else {
				c.redirectFrontend(idex.PC + Word(idex.InstrSize))
			}
		} else {
			c.stats.BranchPredictHits++
		}
	}
}

// resolveControlTransfer corrects a misprediction on a jump (the direction is always "taken"; only
// the target can be mispredicted).
func (c *CPU) resolveControlTransfer(idex *IDEXEntry, target Word) {
	if !idex.PredTaken || idex.PredTarget != target {
		c.stats.BranchPredictMisses++
		c.redirectFrontend(target)
	} else {
		c.stats.BranchPredictHits++
	}
}

func (c *CPU) redirectFrontend(target Word) {
	c.pc = target
	c.ifidQueue = c.ifidQueue[:0]
}

func (c *CPU) executeFP(d isa.Decoded, rs1, rs2 Word, out *EXMEMEntry) {
	double := isDoublePrecision(d.Op)

	switch {
	case d.Op == isa.OpFEQS || d.Op == isa.OpFEQD || d.Op == isa.OpFLTS || d.Op == isa.OpFLTD ||
		d.Op == isa.OpFLES || d.Op == isa.OpFLED:
		out.ALUResult = c.fpu.Compare(d.Op, rs1, rs2, double)
	case d.Op == isa.OpFCLASSS || d.Op == isa.OpFCLASSD:
		out.ALUResult = c.fpu.Classify(rs1, double)
	case d.Op == isa.OpFMVXW:
		out.ALUResult = signExtend32(uint32(rs1))
	case d.Op == isa.OpFMVXD:
		out.ALUResult = rs1
	case d.Op == isa.OpFMVWX:
		out.ALUResult = nanBoxWord(uint32(rs1))
	case d.Op == isa.OpFMVDX:
		out.ALUResult = rs1
	case isFPToIntConvert(d.Op):
		out.ALUResult = c.fpu.ConvertToInt(d.Op, rs1)
	case isIntToFPConvert(d.Op):
		out.ALUResult = c.fpu.ConvertFromInt(d.Op, rs1, double)
	case d.Op == isa.OpFCVTSD || d.Op == isa.OpFCVTDS:
		out.ALUResult = c.fpu.ConvertPrecision(d.Op, rs1)
	case double:
		out.ALUResult = c.fpu.ExecuteDouble(d.Op, rs1, rs2, 0)
	default:
		out.ALUResult = c.fpu.ExecuteSingle(d.Op, rs1, rs2, 0)
	}
}

func isDoublePrecision(op isa.Op) bool {
	switch op {
	case isa.OpFADDD, isa.OpFSUBD, isa.OpFMULD, isa.OpFDIVD, isa.OpFSQRTD,
		isa.OpFMIND, isa.OpFMAXD, isa.OpFMADDD, isa.OpFMSUBD, isa.OpFNMADDD, isa.OpFNMSUBD,
		isa.OpFSGNJD, isa.OpFSGNJND, isa.OpFSGNJXD, isa.OpFEQD, isa.OpFLTD, isa.OpFLED,
		isa.OpFCLASSD, isa.OpFMVXD, isa.OpFMVDX,
		isa.OpFCVTWD, isa.OpFCVTWUD, isa.OpFCVTLD, isa.OpFCVTLUD,
		isa.OpFCVTDW, isa.OpFCVTDWU, isa.OpFCVTDL, isa.OpFCVTDLU:
		return true
	}

	return false
}

func isFPToIntConvert(op isa.Op) bool {
	switch op {
	case isa.OpFCVTWS, isa.OpFCVTWD, isa.OpFCVTWUS, isa.OpFCVTWUD,
		isa.OpFCVTLS, isa.OpFCVTLD, isa.OpFCVTLUS, isa.OpFCVTLUD:
		return true
	}

	return false
}

func isIntToFPConvert(op isa.Op) bool {
	switch op {
	case isa.OpFCVTSW, isa.OpFCVTDW, isa.OpFCVTSWU, isa.OpFCVTDWU,
		isa.OpFCVTSL, isa.OpFCVTDL, isa.OpFCVTSLU, isa.OpFCVTDLU:
		return true
	}

	return false
}

// forward resolves rs1/rs2 from the in-flight bypass sources, letting a later source in
// forwardSources' order override an earlier one (so a MEM/WB result beats the just-written-back
// one), falling back to the register file value already latched at decode time. By the time execute runs this
// cycle, the memory stage has already drained last cycle's EX/MEM entry into MEM/WB, so that
// latch doubles as the "most recent in-flight result" source; lastWriteback covers the entry the
// writeback stage just retired this same cycle.
func (c *CPU) forward(d isa.Decoded, idex *IDEXEntry) (rs1, rs2 Word) {
	rs1, rs2 = idex.Rs1Val, idex.Rs2Val

	for _, src := range forwardSources(nil, c.lastWriteback, c.memwb) {
		if src.reg == 0 {
			continue
		}

		if src.reg == d.Rs1 {
			rs1 = src.val
		}

		if src.reg == d.Rs2 {
			rs2 = src.val
		}
	}

	return rs1, rs2
}
