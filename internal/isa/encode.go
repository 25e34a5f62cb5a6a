package isa

// encode.go is the approximate inverse of Decode, used by tests to check that decode(encode(x))
// round-trips for every instruction format. It only needs to produce A well-formed encoding for a
// given Decoded value, not the unique one a real assembler would choose.

var formatTable = map[Op]string{
	OpLUI: "U", OpAUIPC: "U",
	OpJAL: "J",
	OpJALR: "I",
	OpBEQ: "B", OpBNE: "B", OpBLT: "B", OpBGE: "B", OpBLTU: "B", OpBGEU: "B",
	OpLB: "I", OpLH: "I", OpLW: "I", OpLD: "I", OpLBU: "I", OpLHU: "I", OpLWU: "I",
	OpSB: "S", OpSH: "S", OpSW: "S", OpSD: "S",
	OpADDI: "I", OpSLTI: "I", OpSLTIU: "I", OpXORI: "I", OpORI: "I", OpANDI: "I",
	OpSLLI: "I", OpSRLI: "I", OpSRAI: "I",
	OpADD: "R", OpSUB: "R", OpSLL: "R", OpSLT: "R", OpSLTU: "R", OpXOR: "R", OpSRL: "R", OpSRA: "R", OpOR: "R", OpAND: "R",
	OpADDIW: "I", OpSLLIW: "I", OpSRLIW: "I", OpSRAIW: "I",
	OpADDW: "R", OpSUBW: "R", OpSLLW: "R", OpSRLW: "R", OpSRAW: "R",
	OpMUL: "R", OpMULH: "R", OpMULHSU: "R", OpMULHU: "R", OpDIV: "R", OpDIVU: "R", OpREM: "R", OpREMU: "R",
	OpMULW: "R", OpDIVW: "R", OpDIVUW: "R", OpREMW: "R", OpREMUW: "R",
}

var baseOpTable = map[Op]uint32{
	OpLUI: baseLUI, OpAUIPC: baseAUIPC, OpJAL: baseJAL, OpJALR: baseJALR,
	OpBEQ: baseBRANCH, OpBNE: baseBRANCH, OpBLT: baseBRANCH, OpBGE: baseBRANCH, OpBLTU: baseBRANCH, OpBGEU: baseBRANCH,
	OpLB: baseLOAD, OpLH: baseLOAD, OpLW: baseLOAD, OpLD: baseLOAD, OpLBU: baseLOAD, OpLHU: baseLOAD, OpLWU: baseLOAD,
	OpSB: baseSTORE, OpSH: baseSTORE, OpSW: baseSTORE, OpSD: baseSTORE,
	OpADDI: baseOPIMM, OpSLTI: baseOPIMM, OpSLTIU: baseOPIMM, OpXORI: baseOPIMM, OpORI: baseOPIMM, OpANDI: baseOPIMM,
	OpSLLI: baseOPIMM, OpSRLI: baseOPIMM, OpSRAI: baseOPIMM,
	OpADD: baseOP, OpSUB: baseOP, OpSLL: baseOP, OpSLT: baseOP, OpSLTU: baseOP, OpXOR: baseOP, OpSRL: baseOP, OpSRA: baseOP, OpOR: baseOP, OpAND: baseOP,
	OpADDIW: baseOPIMM32, OpSLLIW: baseOPIMM32, OpSRLIW: baseOPIMM32, OpSRAIW: baseOPIMM32,
	OpADDW: baseOP32, OpSUBW: baseOP32, OpSLLW: baseOP32, OpSRLW: baseOP32, OpSRAW: baseOP32,
	OpMUL: baseOP, OpMULH: baseOP, OpMULHSU: baseOP, OpMULHU: baseOP, OpDIV: baseOP, OpDIVU: baseOP, OpREM: baseOP, OpREMU: baseOP,
	OpMULW: baseOP32, OpDIVW: baseOP32, OpDIVUW: baseOP32, OpREMW: baseOP32, OpREMUW: baseOP32,
}

var funct3Table = map[Op]uint8{
	OpJALR: 0,
	OpBEQ: 0, OpBNE: 1, OpBLT: 4, OpBGE: 5, OpBLTU: 6, OpBGEU: 7,
	OpLB: 0, OpLH: 1, OpLW: 2, OpLD: 3, OpLBU: 4, OpLHU: 5, OpLWU: 6,
	OpSB: 0, OpSH: 1, OpSW: 2, OpSD: 3,
	OpADDI: 0, OpSLTI: 2, OpSLTIU: 3, OpXORI: 4, OpORI: 6, OpANDI: 7,
	OpSLLI: 1, OpSRLI: 5, OpSRAI: 5,
	OpADD: 0, OpSUB: 0, OpSLL: 1, OpSLT: 2, OpSLTU: 3, OpXOR: 4, OpSRL: 5, OpSRA: 5, OpOR: 6, OpAND: 7,
	OpADDIW: 0, OpSLLIW: 1, OpSRLIW: 5, OpSRAIW: 5,
	OpADDW: 0, OpSUBW: 0, OpSLLW: 1, OpSRLW: 5, OpSRAW: 5,
	OpMUL: 0, OpMULH: 1, OpMULHSU: 2, OpMULHU: 3, OpDIV: 4, OpDIVU: 5, OpREM: 6, OpREMU: 7,
	OpMULW: 0, OpDIVW: 4, OpDIVUW: 5, OpREMW: 6, OpREMUW: 7,
}

var funct7Table = map[Op]uint8{
	OpSUB: 0b0100000, OpSRA: 0b0100000, OpSRAI: 0b0100000,
	OpSUBW: 0b0100000, OpSRAW: 0b0100000, OpSRAIW: 0b0100000,
	OpMUL: 1, OpMULH: 1, OpMULHSU: 1, OpMULHU: 1, OpDIV: 1, OpDIVU: 1, OpREM: 1, OpREMU: 1,
	OpMULW: 1, OpDIVW: 1, OpDIVUW: 1, OpREMW: 1, OpREMUW: 1,
}

// Encode produces a well-formed 32-bit encoding for d. It covers the base integer, M, and Zicsr
// subsets used by the round-trip tests; AMO and F/D encodings are not needed there and return 0.
func Encode(d Decoded) uint32 {
	base, ok := baseOpTable[d.Op]
	if !ok {
		return encodeSpecial(d)
	}

	funct3 := funct3Table[d.Op]
	funct7 := funct7Table[d.Op]

	switch formatTable[d.Op] {
	case "R":
		return uint32(base) | uint32(d.Rd)<<7 | uint32(funct3)<<12 | uint32(d.Rs1)<<15 | uint32(d.Rs2)<<20 | uint32(funct7)<<25
	case "I":
		return itype(baseOpcode(base), funct3, d.Rd, d.Rs1, d.Imm) | uint32(funct7)<<25
	case "S":
		return stype(baseOpcode(base), funct3, d.Rs1, d.Rs2, d.Imm)
	case "B":
		return btype(baseOpcode(base), funct3, d.Rs1, d.Rs2, d.Imm)
	case "U":
		return utype(baseOpcode(base), d.Rd, d.Imm)
	case "J":
		return jtype(baseOpcode(base), d.Rd, d.Imm)
	}

	return 0
}

func encodeSpecial(d Decoded) uint32 {
	switch d.Op {
	case OpFENCE:
		return baseMISCMEM
	case OpFENCEI:
		return baseMISCMEM | 1<<12
	case OpECALL:
		return baseSYSTEM
	case OpEBREAK:
		return baseSYSTEM | 1<<20
	case OpMRET:
		return baseSYSTEM | 0x302<<20
	case OpSRET:
		return baseSYSTEM | 0x102<<20
	case OpWFI:
		return baseSYSTEM | 0x105<<20
	case OpSFENCEVMA:
		return baseSYSTEM | 0b0001001<<25
	case OpCSRRW:
		return itype(bSYSTEM, 1, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	case OpCSRRS:
		return itype(bSYSTEM, 2, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	case OpCSRRC:
		return itype(bSYSTEM, 3, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	case OpCSRRWI:
		return itype(bSYSTEM, 5, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	case OpCSRRSI:
		return itype(bSYSTEM, 6, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	case OpCSRRCI:
		return itype(bSYSTEM, 7, d.Rd, uint8(d.Imm), 0) | uint32(d.CSR)<<20
	}

	return 0
}
