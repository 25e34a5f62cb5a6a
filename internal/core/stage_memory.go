package core

import "rv64sim/internal/isa"

// stage_memory.go implements §4.8's Memory stage: translation, cache-hierarchy timing, the RAM
// fast path, width/sign extension, NaN-boxing of 32-bit FP loads, and atomics (LR/SC and the AMO
// sub-operations).

func (c *CPU) memoryStage() {
	exmem := c.exmem
	c.exmem = nil

	if exmem == nil || !exmem.Valid {
		c.memwb = nil
		return
	}

	out := &MEMWBEntry{
		Valid: true, PC: exmem.PC, Raw: exmem.Raw, InstrSize: exmem.InstrSize,
		Decoded: exmem.Decoded, Control: exmem.Control, Trap: exmem.Trap,
	}

	if !exmem.Trap.IsZero() {
		c.memwb = out
		return
	}

	d := exmem.Decoded

	switch {
	case exmem.Control.IsAMO && (d.Op == isa.OpLRW || d.Op == isa.OpLRD):
		c.doAtomicLoad(d, exmem, out)
	case exmem.Control.IsAMO && (d.Op == isa.OpSCW || d.Op == isa.OpSCD):
		c.doStoreConditional(d, exmem, out)
	case exmem.Control.IsAMO:
		c.doAMO(d, exmem, out)
	case exmem.Control.MemRead:
		c.doLoad(d, exmem, out)
	case exmem.Control.MemWrite:
		c.doStore(d, exmem, out)
	default:
		out.WritebackVal = exmem.ALUResult
		out.IsFPResult = exmem.Control.FPRegWrite

		if exmem.IsLink {
			out.WritebackVal = exmem.LinkValue
		}
	}

	c.memwb = out
}

func (c *CPU) translateData(vaddr Word, write bool) (Word, uint32, Trap) {
	at := AccessLoad
	if write {
		at = AccessStore
	}

	tr := c.dtlb.Translate(vaddr, at, c.priv, c.csr)

	return tr.Paddr, tr.ExtraCycles, tr.Trap
}

func addressFaultKind(write bool) TrapKind {
	if write {
		return TrapStoreAddressMisaligned
	}

	return TrapLoadAddressMisaligned
}

func (c *CPU) checkAlign(vaddr Word, width isa.Width, write bool) bool {
	return uint64(vaddr)%uint64(width) == 0
}

func (c *CPU) readMem(paddr Word, width isa.Width) Word {
	off := uint64(paddr)

	if c.bus.InRAM(off) {
		ram := c.bus.RAM()
		ramOff := c.bus.RAMOffset(off)

		switch width {
		case isa.WidthByte:
			return Word(ram.ReadByte(ramOff))
		case isa.WidthHalf:
			return Word(ram.ReadHalf(ramOff))
		case isa.WidthWord:
			return Word(ram.ReadWord(ramOff))
		default:
			return Word(ram.ReadDouble(ramOff))
		}
	}

	switch width {
	case isa.WidthByte:
		return Word(c.bus.ReadU8(off))
	case isa.WidthHalf:
		return Word(c.bus.ReadU16(off))
	case isa.WidthWord:
		return Word(c.bus.ReadU32(off))
	default:
		return Word(c.bus.ReadU64(off))
	}
}

func (c *CPU) writeMem(paddr Word, width isa.Width, v Word) {
	off := uint64(paddr)

	if c.bus.InRAM(off) {
		ram := c.bus.RAM()
		ramOff := c.bus.RAMOffset(off)

		switch width {
		case isa.WidthByte:
			ram.WriteByte(ramOff, uint8(v))
		case isa.WidthHalf:
			ram.WriteHalf(ramOff, uint16(v))
		case isa.WidthWord:
			ram.WriteWord(ramOff, uint32(v))
		default:
			ram.WriteDouble(ramOff, uint64(v))
		}

		return
	}

	switch width {
	case isa.WidthByte:
		c.bus.WriteU8(off, uint8(v))
	case isa.WidthHalf:
		c.bus.WriteU16(off, uint16(v))
	case isa.WidthWord:
		c.bus.WriteU32(off, uint32(v))
	default:
		c.bus.WriteU64(off, uint64(v))
	}
}

func signExtendWidth(v Word, width isa.Width) Word {
	switch width {
	case isa.WidthByte:
		return Word(int64(int8(v)))
	case isa.WidthHalf:
		return Word(int64(int16(v)))
	case isa.WidthWord:
		return Word(int64(int32(v)))
	default:
		return v
	}
}

func isUnsignedLoad(op isa.Op) bool {
	switch op {
	case isa.OpLBU, isa.OpLHU, isa.OpLWU:
		return true
	}

	return false
}

func (c *CPU) doLoad(d isa.Decoded, exmem *EXMEMEntry, out *MEMWBEntry) {
	vaddr := exmem.VAddr

	if !c.checkAlign(vaddr, d.Width, false) {
		out.Trap = Trap{Kind: TrapLoadAddressMisaligned, Addr: vaddr}
		return
	}

	paddr, cycles, trap := c.translateData(vaddr, false)
	if !trap.IsZero() {
		out.Trap = trap
		return
	}

	c.stats.MemoryStallCycles += uint64(cycles)
	c.stats.MemoryStallCycles += uint64(c.hier.AccessData(uint64(paddr), false))

	raw := c.readMem(paddr, d.Width)

	isFP := d.Op == isa.OpFLW || d.Op == isa.OpFLD

	switch {
	case isFP && d.Width == isa.WidthWord:
		out.WritebackVal = nanBoxWord(uint32(raw))
		out.IsFPResult = true
	case isFP:
		out.WritebackVal = raw
		out.IsFPResult = true
	case isUnsignedLoad(d.Op):
		out.WritebackVal = raw
	default:
		out.WritebackVal = signExtendWidth(raw, d.Width)
	}
}

func (c *CPU) doStore(d isa.Decoded, exmem *EXMEMEntry, out *MEMWBEntry) {
	vaddr := exmem.VAddr

	if !c.checkAlign(vaddr, d.Width, true) {
		out.Trap = Trap{Kind: TrapStoreAddressMisaligned, Addr: vaddr}
		return
	}

	paddr, cycles, trap := c.translateData(vaddr, true)
	if !trap.IsZero() {
		out.Trap = trap
		return
	}

	c.stats.MemoryStallCycles += uint64(cycles)
	c.stats.MemoryStallCycles += uint64(c.hier.AccessData(uint64(paddr), true))

	c.writeMem(paddr, d.Width, exmem.StoreVal)

	if l1d := c.hier.L1D(); l1d != nil {
		l1d.ClearReservationsMatching(uint64(paddr))
	}
}

func (c *CPU) doAtomicLoad(d isa.Decoded, exmem *EXMEMEntry, out *MEMWBEntry) {
	width := isa.WidthWord
	if d.Op == isa.OpLRD {
		width = isa.WidthDouble
	}

	vaddr := exmem.VAddr

	paddr, cycles, trap := c.translateData(vaddr, false)
	if !trap.IsZero() {
		out.Trap = trap
		return
	}

	c.stats.MemoryStallCycles += uint64(cycles)
	c.stats.MemoryStallCycles += uint64(c.hier.AccessData(uint64(paddr), false))

	out.WritebackVal = signExtendWidth(c.readMem(paddr, width), width)

	if l1d := c.hier.L1D(); l1d != nil {
		l1d.Reserve(uint64(paddr))
	}
}

func (c *CPU) doStoreConditional(d isa.Decoded, exmem *EXMEMEntry, out *MEMWBEntry) {
	width := isa.WidthWord
	if d.Op == isa.OpSCD {
		width = isa.WidthDouble
	}

	vaddr := exmem.VAddr

	paddr, cycles, trap := c.translateData(vaddr, true)
	if !trap.IsZero() {
		out.Trap = trap
		return
	}

	c.stats.MemoryStallCycles += uint64(cycles)

	l1d := c.hier.L1D()

	held := l1d != nil && l1d.CheckAndClearReservation(uint64(paddr))

	if held {
		c.stats.MemoryStallCycles += uint64(c.hier.AccessData(uint64(paddr), true))
		c.writeMem(paddr, width, exmem.StoreVal)
		out.WritebackVal = 0
	} else {
		out.WritebackVal = 1
	}
}

func (c *CPU) doAMO(d isa.Decoded, exmem *EXMEMEntry, out *MEMWBEntry) {
	width := isa.WidthWord
	if d.Width == isa.WidthDouble {
		width = isa.WidthDouble
	}

	vaddr := exmem.VAddr

	paddr, cycles, trap := c.translateData(vaddr, true)
	if !trap.IsZero() {
		out.Trap = trap
		return
	}

	c.stats.MemoryStallCycles += uint64(cycles)
	c.stats.MemoryStallCycles += uint64(c.hier.AccessData(uint64(paddr), true))

	old := signExtendWidth(c.readMem(paddr, width), width)
	operand := exmem.StoreVal

	newVal := amoCompute(d.AMO, old, operand, width)

	c.writeMem(paddr, width, newVal)

	if l1d := c.hier.L1D(); l1d != nil {
		l1d.ClearReservationsMatching(uint64(paddr))
	}

	out.WritebackVal = old
}

func amoCompute(op isa.AMOOp, old, operand Word, width isa.Width) Word {
	switch op {
	case isa.AMOSwap:
		return operand
	case isa.AMOAdd:
		return old + operand
	case isa.AMOXor:
		return old ^ operand
	case isa.AMOAnd:
		return old & operand
	case isa.AMOOr:
		return old | operand
	case isa.AMOMin:
		if width == isa.WidthWord {
			if int32(old) < int32(operand) {
				return old
			}

			return operand
		}

		if int64(old) < int64(operand) {
			return old
		}

		return operand
	case isa.AMOMax:
		if width == isa.WidthWord {
			if int32(old) > int32(operand) {
				return old
			}

			return operand
		}

		if int64(old) > int64(operand) {
			return old
		}

		return operand
	case isa.AMOMinu:
		if width == isa.WidthWord {
			if uint32(old) < uint32(operand) {
				return old
			}

			return operand
		}

		if old < operand {
			return old
		}

		return operand
	case isa.AMOMaxu:
		if width == isa.WidthWord {
			if uint32(old) > uint32(operand) {
				return old
			}

			return operand
		}

		if old > operand {
			return old
		}

		return operand
	}

	return old
}
