package core

import "rv64sim/internal/isa"

// stage_fetch.go implements §4.8's Fetch stage: alignment check, translation, half-word reads
// with compressed expansion, and branch prediction to steer the next PC.

func (c *CPU) fetchStage() {
	if c.stalled {
		return
	}

	for slot := 0; slot < c.cfg.Pipeline.Width; slot++ {
		entry := c.fetchOne(c.pc)
		c.ifidQueue = append(c.ifidQueue, entry)

		if !entry.Trap.IsZero() {
			break
		}

		if entry.PredTaken || isUnconditionalControlTransfer(entry.Raw) {
			c.pc = entry.PredTarget
			break
		}

		c.pc += Word(entry.InstrSize)
	}
}

func isUnconditionalControlTransfer(raw uint32) bool {
	d := isa.Decode(raw)
	return d.Op == isa.OpJAL || d.Op == isa.OpJALR
}

func (c *CPU) fetchOne(pc Word) IFIDEntry {
	entry := IFIDEntry{Valid: true, PC: pc}

	if pc&1 != 0 {
		entry.Trap = Trap{Kind: TrapInstructionAddressMisaligned, Addr: pc}
		return entry
	}

	tr := c.itlb.Translate(pc, AccessFetch, c.priv, c.csr)
	if !tr.Trap.IsZero() {
		entry.Trap = tr.Trap
		return entry
	}

	c.stats.IFetchCycles += uint64(tr.ExtraCycles)
	c.stats.IFetchCycles += uint64(c.hier.AccessFetch(uint64(tr.Paddr)))

	lo := c.readPhys16(tr.Paddr)

	var raw uint32
	var size uint8

	if lo&0b11 == 0b11 {
		hiVAddr := pc + 2
		hiPAddr := tr.Paddr + 2

		if uint64(pc)>>12 != uint64(hiVAddr)>>12 {
			trHi := c.itlb.Translate(hiVAddr, AccessFetch, c.priv, c.csr)
			if !trHi.Trap.IsZero() {
				entry.Trap = trHi.Trap
				return entry
			}

			hiPAddr = trHi.Paddr
		}

		hi := c.readPhys16(hiPAddr)

		raw = uint32(lo) | uint32(hi)<<16
		size = 4
	} else {
		expanded, ok := isa.ExpandCompressed(lo)
		if !ok {
			entry.Trap = Trap{Kind: TrapIllegalInstruction, Encoding: uint32(lo)}
			return entry
		}

		raw = expanded
		size = 2
	}

	entry.Raw = raw
	entry.InstrSize = size

	d := isa.Decode(raw)

	switch d.Op {
	case isa.OpBEQ, isa.OpBNE, isa.OpBLT, isa.OpBGE, isa.OpBLTU, isa.OpBGEU:
		taken, target, ok := c.bpred.PredictBranch(pc)
		entry.PredTaken = taken

		if taken && ok {
			entry.PredTarget = target
		} else if taken {
			entry.PredTarget = pc + Word(size)
		}
	case isa.OpJAL:
		target := pc + Word(d.Imm)
		entry.PredTaken = true
		entry.PredTarget = target

		if d.Rd == 1 || d.Rd == 5 {
			c.bpred.OnCall(pc, pc+Word(size), target)
		}
	case isa.OpJALR:
		if d.Rs1 == 1 && d.Rd == 0 && d.Imm == 0 {
			if t, ok := c.bpred.PredictReturn(); ok {
				entry.PredTaken = true
				entry.PredTarget = t
			}
		} else if t, ok := c.bpred.PredictBTB(pc); ok {
			entry.PredTaken = true
			entry.PredTarget = t
		}
	}

	return entry
}

// readPhys16 reads a 16-bit half-word at a physical address, via the RAM fast path when possible
// and via the bus otherwise, per §9.
func (c *CPU) readPhys16(paddr Word) uint16 {
	if c.bus.InRAM(uint64(paddr)) {
		return c.bus.RAM().ReadHalf(c.bus.RAMOffset(uint64(paddr)))
	}

	return c.bus.ReadU16(uint64(paddr))
}
