package isa

// rvc.go expands the 16-bit "C" compressed encodings into their equivalent 32-bit RV64GC
// encoding before Decode sees them, per §3's note that the fetch stage handles compressed
// instructions by first expanding them to a canonical 32-bit form. A reserved or unassigned
// 16-bit pattern expands to nothing and is reported as illegal.

func crs1p(raw uint16) uint8 { return uint8((raw>>7)&0x7) + 8 }
func crs2p(raw uint16) uint8 { return uint8((raw>>2)&0x7) + 8 }
func crd(raw uint16) uint8   { return uint8((raw >> 7) & 0x1f) }
func crs2(raw uint16) uint8  { return uint8((raw >> 2) & 0x1f) }

func rtype(op baseOpcode, funct3 uint8, rd, rs1, rs2 uint8) uint32 {
	return uint32(op) | uint32(rd)<<7 | uint32(funct3)<<12 | uint32(rs1)<<15 | uint32(rs2)<<20
}

func itype(op baseOpcode, funct3 uint8, rd, rs1 uint8, imm int64) uint32 {
	return uint32(op) | uint32(rd)<<7 | uint32(funct3)<<12 | uint32(rs1)<<15 | uint32(imm&0xfff)<<20
}

func stype(op baseOpcode, funct3 uint8, rs1, rs2 uint8, imm int64) uint32 {
	u := uint32(imm) & 0xfff
	return uint32(op) | (u&0x1f)<<7 | uint32(funct3)<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | (u>>5)<<25
}

func btype(op baseOpcode, funct3 uint8, rs1, rs2 uint8, imm int64) uint32 {
	u := uint32(imm) & 0x1fff
	bit11 := (u >> 11) & 1
	bit12 := (u >> 12) & 1
	bits4_1 := (u >> 1) & 0xf
	bits10_5 := (u >> 5) & 0x3f

	return uint32(op) | bit11<<7 | bits4_1<<8 | uint32(funct3)<<12 | uint32(rs1)<<15 | uint32(rs2)<<20 | bits10_5<<25 | bit12<<31
}

func utype(op baseOpcode, rd uint8, imm int64) uint32 {
	return uint32(op) | uint32(rd)<<7 | uint32(imm)&0xfffff000
}

func jtype(op baseOpcode, rd uint8, imm int64) uint32 {
	u := uint32(imm) & 0x1fffff
	bit20 := (u >> 20) & 1
	bits10_1 := (u >> 1) & 0x3ff
	bit11 := (u >> 11) & 1
	bits19_12 := (u >> 12) & 0xff

	return uint32(op) | uint32(rd)<<7 | bits19_12<<12 | bit11<<20 | bits10_1<<21 | bit20<<31
}

type baseOpcode uint32

const (
	bLOAD    baseOpcode = baseLOAD
	bLOADFP  baseOpcode = baseLOADFP
	bOPIMM   baseOpcode = baseOPIMM
	bOPIMM32 baseOpcode = baseOPIMM32
	bSTORE   baseOpcode = baseSTORE
	bSTOREFP baseOpcode = baseSTOREFP
	bOP      baseOpcode = baseOP
	bOP32    baseOpcode = baseOP32
	bLUI     baseOpcode = baseLUI
	bBRANCH  baseOpcode = baseBRANCH
	bJALR    baseOpcode = baseJALR
	bJAL     baseOpcode = baseJAL
	bSYSTEM  baseOpcode = baseSYSTEM
)

// ExpandCompressed expands a 16-bit compressed encoding to its 32-bit equivalent. ok is false for
// a reserved or unassigned pattern, which the caller must treat as an illegal instruction.
func ExpandCompressed(raw uint16) (expanded uint32, ok bool) {
	quadrant := raw & 0x3
	funct3 := uint8(raw>>13) & 0x7

	if raw == 0 {
		return 0, false // defined reserved all-zero pattern
	}

	switch quadrant {
	case 0b00:
		return expandQuadrant0(raw, funct3)
	case 0b01:
		return expandQuadrant1(raw, funct3)
	case 0b10:
		return expandQuadrant2(raw, funct3)
	}

	return 0, false
}

func expandQuadrant0(raw uint16, funct3 uint8) (uint32, bool) {
	rdp := crs2p(raw)
	rs1p := crs1p(raw)

	switch funct3 {
	case 0b000: // C.ADDI4SPN
		nzuimm := (uint32(raw>>7)&0x30)>>2 | (uint32(raw>>1)&0x3c0)>>2 | (uint32(raw>>5)&0x1)<<3 | (uint32(raw>>6)&0x1)<<2
		nzuimm = (uint32(raw)>>5&0x1)<<3 | (uint32(raw)>>6&0x1)<<2 | (uint32(raw)>>7&0xf)<<6 | (uint32(raw)>>11&0x3)<<4
		if nzuimm == 0 {
			return 0, false
		}
		return itype(bOPIMM, 0, rdp, 2, int64(nzuimm)), true
	case 0b010: // C.LW
		imm := clwImm(raw)
		return itype(bLOAD, 0b010, rdp, rs1p, imm), true
	case 0b011: // C.LD
		imm := cldImm(raw)
		return itype(bLOAD, 0b011, rdp, rs1p, imm), true
	case 0b110: // C.SW
		imm := clwImm(raw)
		return stype(bSTORE, 0b010, rs1p, rdp, imm), true
	case 0b111: // C.SD
		imm := cldImm(raw)
		return stype(bSTORE, 0b011, rs1p, rdp, imm), true
	}

	return 0, false
}

func clwImm(raw uint16) int64 {
	bit6 := (uint32(raw>>5) & 0x1)
	bit2 := (uint32(raw>>6) & 0x1)
	bits5_3 := (uint32(raw>>10) & 0x7)
	return int64(bit6<<6 | bits5_3<<3 | bit2<<2)
}

func cldImm(raw uint16) int64 {
	bits7_6 := uint32(raw>>5) & 0x3
	bits5_3 := uint32(raw>>10) & 0x7
	return int64(bits7_6<<6 | bits5_3<<3)
}

func expandQuadrant1(raw uint16, funct3 uint8) (uint32, bool) {
	rd := crd(raw)

	switch funct3 {
	case 0b000: // C.ADDI / C.NOP
		imm := sext(uint32(raw>>12&1)<<5|uint32(raw>>2&0x1f), 5)
		return itype(bOPIMM, 0, rd, rd, imm), true
	case 0b001: // C.ADDIW
		imm := sext(uint32(raw>>12&1)<<5|uint32(raw>>2&0x1f), 5)
		if rd == 0 {
			return 0, false
		}
		return itype(bOPIMM32, 0, rd, rd, imm), true
	case 0b010: // C.LI
		imm := sext(uint32(raw>>12&1)<<5|uint32(raw>>2&0x1f), 5)
		return itype(bOPIMM, 0, rd, 0, imm), true
	case 0b011:
		if rd == 2 { // C.ADDI16SP
			b9 := uint32(raw>>12&1) << 9
			b4 := uint32(raw>>6&1) << 4
			b6 := uint32(raw>>5&1) << 6
			b8_7 := uint32(raw>>3&0x3) << 7
			b5 := uint32(raw>>2&1) << 5
			imm := sext(b9|b8_7|b6|b5|b4, 9)
			if imm == 0 {
				return 0, false
			}
			return itype(bOPIMM, 0, 2, 2, imm), true
		}
		// C.LUI
		nzimm := sext(uint32(raw>>12&1)<<17|uint32(raw>>2&0x1f)<<12, 17)
		if nzimm == 0 || rd == 0 {
			return 0, false
		}
		return utype(bLUI, rd, nzimm), true
	case 0b100:
		return expandQuadrant1Alu(raw)
	case 0b101: // C.J
		imm := cjImm(raw)
		return jtype(bJAL, 0, imm), true
	case 0b110: // C.BEQZ
		imm := cbImm(raw)
		return btype(bBRANCH, 0b000, crs1p(raw), 0, imm), true
	case 0b111: // C.BNEZ
		imm := cbImm(raw)
		return btype(bBRANCH, 0b001, crs1p(raw), 0, imm), true
	}

	return 0, false
}

func cjImm(raw uint16) int64 {
	b11 := uint32(raw>>12&1) << 11
	b4 := uint32(raw>>11&1) << 4
	b9_8 := uint32(raw>>9&0x3) << 8
	b10 := uint32(raw>>8&1) << 10
	b6 := uint32(raw>>7&1) << 6
	b7 := uint32(raw>>6&1) << 7
	b3_1 := uint32(raw>>3&0x7) << 1
	b5 := uint32(raw>>2&1) << 5
	return sext(b11|b10|b9_8|b7|b6|b5|b4|b3_1, 11)
}

func cbImm(raw uint16) int64 {
	b8 := uint32(raw>>12&1) << 8
	b4_3 := uint32(raw>>10&0x3) << 3
	b7_6 := uint32(raw>>5&0x3) << 6
	b2_1 := uint32(raw>>3&0x3) << 1
	b5 := uint32(raw>>2&1) << 5
	return sext(b8|b7_6|b5|b4_3|b2_1, 8)
}

func expandQuadrant1Alu(raw uint16) (uint32, bool) {
	rdp := crs1p(raw)
	funct2 := uint8(raw>>10) & 0x3

	switch funct2 {
	case 0b00: // C.SRLI
		shamt := uint32(raw>>12&1)<<5 | uint32(raw>>2&0x1f)
		return itype(bOPIMM, 0b101, rdp, rdp, int64(shamt)), true
	case 0b01: // C.SRAI
		shamt := uint32(raw>>12&1)<<5 | uint32(raw>>2&0x1f)
		return itype(bOPIMM, 0b101, rdp, rdp, int64(shamt)|0x400<<20>>20), true
	case 0b10: // C.ANDI
		imm := sext(uint32(raw>>12&1)<<5|uint32(raw>>2&0x1f), 5)
		return itype(bOPIMM, 0b111, rdp, rdp, imm), true
	case 0b11:
		rs2p := crs2p(raw)
		funct6bit := uint8(raw>>12) & 1
		funct2b := uint8(raw>>5) & 0x3

		if funct6bit == 0 {
			switch funct2b {
			case 0b00: // C.SUB
				return rtype(bOP, 0b000, rdp, rdp, rs2p) | 0x20<<25, true
			case 0b01: // C.XOR
				return rtype(bOP, 0b100, rdp, rdp, rs2p), true
			case 0b10: // C.OR
				return rtype(bOP, 0b110, rdp, rdp, rs2p), true
			case 0b11: // C.AND
				return rtype(bOP, 0b111, rdp, rdp, rs2p), true
			}
		} else {
			switch funct2b {
			case 0b00: // C.SUBW
				return rtype(bOP32, 0b000, rdp, rdp, rs2p) | 0x20<<25, true
			case 0b01: // C.ADDW
				return rtype(bOP32, 0b000, rdp, rdp, rs2p), true
			}
		}
	}

	return 0, false
}

func expandQuadrant2(raw uint16, funct3 uint8) (uint32, bool) {
	rd := crd(raw)
	rs2 := crs2(raw)

	switch funct3 {
	case 0b000: // C.SLLI
		shamt := uint32(raw>>12&1)<<5 | uint32(raw>>2&0x1f)
		if rd == 0 {
			return 0, false
		}
		return itype(bOPIMM, 0b001, rd, rd, int64(shamt)), true
	case 0b010: // C.LWSP
		if rd == 0 {
			return 0, false
		}
		b7_6 := uint32(raw>>2&0x3) << 6
		b4_2 := uint32(raw>>4&0x7) << 2
		b5 := uint32(raw>>12&1) << 5
		imm := int64(b7_6 | b5 | b4_2)
		return itype(bLOAD, 0b010, rd, 2, imm), true
	case 0b011: // C.LDSP
		if rd == 0 {
			return 0, false
		}
		b8_6 := uint32(raw>>2&0x7) << 6
		b5 := uint32(raw>>12&1) << 5
		b4_3 := uint32(raw>>5&0x3) << 3
		imm := int64(b8_6 | b5 | b4_3)
		return itype(bLOAD, 0b011, rd, 2, imm), true
	case 0b100:
		b12 := uint16(raw>>12) & 1

		if b12 == 0 {
			if rs2 == 0 { // C.JR
				if rd == 0 {
					return 0, false
				}
				return itype(bJALR, 0, 0, rd, 0), true
			}
			// C.MV
			return rtype(bOP, 0, rd, 0, rs2), true
		}

		if rs2 == 0 {
			if rd == 0 { // C.EBREAK
				return 0x00100073, true
			}
			// C.JALR
			return itype(bJALR, 0, 1, rd, 0), true
		}
		// C.ADD
		if rd == 0 {
			return 0, false
		}
		return rtype(bOP, 0, rd, rd, rs2), true
	case 0b110: // C.SWSP
		b8_7 := uint32(raw>>7) & 0x3
		b5_2 := uint32(raw>>9) & 0xf
		imm := int64(b8_7<<6 | b5_2<<2)
		return stype(bSTORE, 0b010, 2, rs2, imm), true
	case 0b111: // C.SDSP
		b8_6 := uint32(raw>>7) & 0x7
		b5_3 := uint32(raw>>10) & 0x7
		imm := int64(b8_6<<6 | b5_3<<3)
		return stype(bSTORE, 0b011, 2, rs2, imm), true
	}

	return 0, false
}
