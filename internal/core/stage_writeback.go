package core

// stage_writeback.go implements §4.8's Writeback stage: trap entry, the writeback-value mux,
// register-file commit, retirement statistics, trace recording, and the lastWriteback bypass
// handoff consumed by the execute stage later in the same cycle.

func (c *CPU) writebackStage() {
	memwb := c.memwb
	c.memwb = nil
	c.lastWriteback = nil

	if memwb == nil || !memwb.Valid {
		return
	}

	if !memwb.Trap.IsZero() {
		c.handleTrap(memwb)
		return
	}

	if memwb.Control.RegWrite {
		c.intRegs.Set(memwb.Decoded.Rd, memwb.WritebackVal)
	}

	if memwb.Control.FPRegWrite {
		c.fpRegs.SetDouble(memwb.Decoded.Rd, memwb.WritebackVal)
	}

	c.stats.RetireClass(memwb.Decoded.Op)

	if c.trace != nil {
		c.trace.Append(TraceEntry{PC: memwb.PC, Raw: memwb.Raw})
	}

	c.lastWriteback = memwb
}

// handleTrap processes a trapped instruction at writeback: TrapRequested short-circuits to a
// host exit (direct mode's SYS_EXIT convention; a RequestTrap halt is taken in Tick and never
// reaches this latch); in direct mode,
// every other trap except an ECALL is itself fatal, since there is no OS installed to delegate
// to; everything else goes through the trap handler for delegation and CSR bookkeeping.
func (c *CPU) handleTrap(memwb *MEMWBEntry) {
	c.stats.TrapsTaken++

	if memwb.Trap.Kind == TrapRequested {
		c.halted = true
		c.exitCode = memwb.Trap.ExitCode
		c.flushPipeline()

		return
	}

	if c.directMode && !memwb.Trap.Kind.isECALL() {
		c.haltDirectMode(memwb.Trap, memwb.PC)
		c.flushPipeline()

		return
	}

	newPriv, newPC, err := c.trapHandler.Enter(memwb.Trap, memwb.PC, c.priv)
	if err != nil {
		c.halted = true
		c.exitCode = exitCodeDoubleFault
		c.lastErr = err
		c.flushPipeline()

		return
	}

	c.priv = newPriv
	c.pc = newPC
	c.flushPipeline()
}

// haltDirectMode converts a trap to an immediate host exit, following the no-OS convention
// original_source/crates/hardware/src/core/cpu/trap.rs applies in direct mode: a bare illegal
// instruction with a zero encoding (falling off the end of a program with no handler installed)
// exits cleanly with code 0, and anything else is a fatal diagnostic at exit code 1.
func (c *CPU) haltDirectMode(t Trap, epc Word) {
	c.halted = true

	if t.Kind == TrapIllegalInstruction && t.Encoding == 0 {
		c.exitCode = 0
		return
	}

	c.log.Error("fatal trap in direct mode", "cause", t.Kind, "pc", epc)
	c.exitCode = 1
}

// flushPipeline discards every in-flight latch, used after a trap is taken since the
// instructions behind the trapping one in the pipeline must never retire.
func (c *CPU) flushPipeline() {
	c.ifidQueue = c.ifidQueue[:0]
	c.idex = nil
	c.exmem = nil
}
