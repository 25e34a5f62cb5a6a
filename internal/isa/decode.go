package isa

// decode.go implements §4.8's "decode" bitfield extraction as a pure function from a 32-bit
// encoding to a Decoded value. Compressed encodings are expanded to their 32-bit equivalent by
// ExpandCompressed (rvc.go) before reaching Decode.

// Decoded is a fully decoded instruction: opcode, operand fields, and the immediate, already
// sign- or zero-extended per its encoding's type (I, S, B, U, J).
type Decoded struct {
	Raw    uint32
	Op     Op
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Rs3    uint8
	Imm    int64
	CSR    uint16
	Funct3 uint8
	Funct7 uint8
	Width  Width
	AMO    AMOOp
	Aq     bool
	Rl     bool

	// Size is the instruction's encoded length in bytes: 2 for a compressed encoding that was
	// expanded before decoding, 4 otherwise. Fetch uses it to advance the PC.
	Size uint8
}

func bits(v uint32, hi, lo uint) uint32 {
	return (v >> lo) & ((1 << (hi - lo + 1)) - 1)
}

func sext(v uint32, bit uint) int64 {
	shift := 31 - bit
	return int64(int32(v<<shift)) >> shift
}

func immI(raw uint32) int64 { return sext(bits(raw, 31, 20), 11) }

func immS(raw uint32) int64 {
	v := bits(raw, 31, 25)<<5 | bits(raw, 11, 7)
	return sext(v, 11)
}

func immB(raw uint32) int64 {
	v := bits(raw, 31, 31)<<12 | bits(raw, 7, 7)<<11 | bits(raw, 30, 25)<<5 | bits(raw, 11, 8)<<1
	return sext(v, 12)
}

func immU(raw uint32) int64 {
	return int64(int32(raw & 0xfffff000))
}

func immJ(raw uint32) int64 {
	v := bits(raw, 31, 31)<<20 | bits(raw, 19, 12)<<12 | bits(raw, 20, 20)<<11 | bits(raw, 30, 21)<<1
	return sext(v, 20)
}

// Decode decodes a 32-bit RV64GC instruction encoding. Reserved or unrecognised patterns decode
// to OpIllegal; the caller (the pipeline's decode stage) is responsible for turning that into an
// IllegalInstruction trap carrying the raw encoding, per §3.
func Decode(raw uint32) Decoded {
	d := Decoded{Raw: raw, Size: 4}

	op := raw & 0x7f
	d.Rd = uint8(bits(raw, 11, 7))
	d.Rs1 = uint8(bits(raw, 19, 15))
	d.Rs2 = uint8(bits(raw, 24, 20))
	d.Rs3 = uint8(bits(raw, 31, 27))
	d.Funct3 = uint8(bits(raw, 14, 12))
	d.Funct7 = uint8(bits(raw, 31, 25))

	switch op {
	case baseLUI:
		d.Op, d.Imm = OpLUI, immU(raw)
	case baseAUIPC:
		d.Op, d.Imm = OpAUIPC, immU(raw)
	case baseJAL:
		d.Op, d.Imm = OpJAL, immJ(raw)
	case baseJALR:
		if d.Funct3 == 0 {
			d.Op, d.Imm = OpJALR, immI(raw)
		}
	case baseBRANCH:
		d.Imm = immB(raw)

		switch d.Funct3 {
		case 0b000:
			d.Op = OpBEQ
		case 0b001:
			d.Op = OpBNE
		case 0b100:
			d.Op = OpBLT
		case 0b101:
			d.Op = OpBGE
		case 0b110:
			d.Op = OpBLTU
		case 0b111:
			d.Op = OpBGEU
		}
	case baseLOAD:
		d.Imm = immI(raw)

		switch d.Funct3 {
		case 0b000:
			d.Op, d.Width = OpLB, WidthByte
		case 0b001:
			d.Op, d.Width = OpLH, WidthHalf
		case 0b010:
			d.Op, d.Width = OpLW, WidthWord
		case 0b011:
			d.Op, d.Width = OpLD, WidthDouble
		case 0b100:
			d.Op, d.Width = OpLBU, WidthByte
		case 0b101:
			d.Op, d.Width = OpLHU, WidthHalf
		case 0b110:
			d.Op, d.Width = OpLWU, WidthWord
		}
	case baseLOADFP:
		d.Imm = immI(raw)

		switch d.Funct3 {
		case 0b010:
			d.Op, d.Width = OpFLW, WidthWord
		case 0b011:
			d.Op, d.Width = OpFLD, WidthDouble
		}
	case baseSTORE:
		d.Imm = immS(raw)

		switch d.Funct3 {
		case 0b000:
			d.Op, d.Width = OpSB, WidthByte
		case 0b001:
			d.Op, d.Width = OpSH, WidthHalf
		case 0b010:
			d.Op, d.Width = OpSW, WidthWord
		case 0b011:
			d.Op, d.Width = OpSD, WidthDouble
		}
	case baseSTOREFP:
		d.Imm = immS(raw)

		switch d.Funct3 {
		case 0b010:
			d.Op, d.Width = OpFSW, WidthWord
		case 0b011:
			d.Op, d.Width = OpFSD, WidthDouble
		}
	case baseOPIMM:
		d.Imm = immI(raw)
		decodeOpImm(&d, false)
	case baseOPIMM32:
		d.Imm = immI(raw)
		decodeOpImm(&d, true)
	case baseOP:
		decodeOp(&d, false)
	case baseOP32:
		decodeOp(&d, true)
	case baseMISCMEM:
		switch d.Funct3 {
		case 0b000:
			d.Op = OpFENCE
		case 0b001:
			d.Op = OpFENCEI
		}
	case baseSYSTEM:
		decodeSystem(&d, raw)
	case baseAMO:
		decodeAMO(&d, raw)
	case baseOPFP:
		decodeOpFP(&d, raw)
	case baseMADD, baseMSUB, baseNMSUB, baseNMADD:
		decodeFMA(&d, op, raw)
	}

	return d
}

func decodeOpImm(d *Decoded, w bool) {
	shamtMask := uint8(0x3f)
	if w {
		shamtMask = 0x1f
	}

	switch d.Funct3 {
	case 0b000:
		d.Op = pick(w, OpADDIW, OpADDI)
	case 0b010:
		d.Op = OpSLTI
	case 0b011:
		d.Op = OpSLTIU
	case 0b100:
		d.Op = OpXORI
	case 0b110:
		d.Op = OpORI
	case 0b111:
		d.Op = OpANDI
	case 0b001:
		d.Op = pick(w, OpSLLIW, OpSLLI)
		d.Imm = int64(uint8(d.Imm) & shamtMask)
	case 0b101:
		shamt := uint8(d.Imm) & shamtMask
		if d.Funct7>>1 == 0b0100000>>1 && (d.Raw>>30)&1 == 1 {
			d.Op = pick(w, OpSRAIW, OpSRAI)
		} else {
			d.Op = pick(w, OpSRLIW, OpSRLI)
		}
		d.Imm = int64(shamt)
	}
}

func pick(w bool, a, b Op) Op {
	if w {
		return a
	}
	return b
}

func decodeOp(d *Decoded, w bool) {
	switch {
	case d.Funct7 == 0b0000001:
		decodeM(d, w)
		return
	case d.Funct7 == 0b0000000:
		switch d.Funct3 {
		case 0b000:
			d.Op = pick(w, OpADDW, OpADD)
		case 0b001:
			d.Op = pick(w, OpSLLW, OpSLL)
		case 0b010:
			if !w {
				d.Op = OpSLT
			}
		case 0b011:
			if !w {
				d.Op = OpSLTU
			}
		case 0b100:
			if !w {
				d.Op = OpXOR
			}
		case 0b101:
			d.Op = pick(w, OpSRLW, OpSRL)
		case 0b110:
			if !w {
				d.Op = OpOR
			}
		case 0b111:
			if !w {
				d.Op = OpAND
			}
		}
	case d.Funct7 == 0b0100000:
		switch d.Funct3 {
		case 0b000:
			d.Op = pick(w, OpSUBW, OpSUB)
		case 0b101:
			d.Op = pick(w, OpSRAW, OpSRA)
		}
	}
}

func decodeM(d *Decoded, w bool) {
	if w {
		switch d.Funct3 {
		case 0b000:
			d.Op = OpMULW
		case 0b100:
			d.Op = OpDIVW
		case 0b101:
			d.Op = OpDIVUW
		case 0b110:
			d.Op = OpREMW
		case 0b111:
			d.Op = OpREMUW
		}

		return
	}

	switch d.Funct3 {
	case 0b000:
		d.Op = OpMUL
	case 0b001:
		d.Op = OpMULH
	case 0b010:
		d.Op = OpMULHSU
	case 0b011:
		d.Op = OpMULHU
	case 0b100:
		d.Op = OpDIV
	case 0b101:
		d.Op = OpDIVU
	case 0b110:
		d.Op = OpREM
	case 0b111:
		d.Op = OpREMU
	}
}

func decodeSystem(d *Decoded, raw uint32) {
	d.CSR = uint16(bits(raw, 31, 20))

	switch d.Funct3 {
	case 0b000:
		switch {
		case raw == 0x00000073:
			d.Op = OpECALL
		case raw == 0x00100073:
			d.Op = OpEBREAK
		case d.CSR == 0x302:
			d.Op = OpMRET
		case d.CSR == 0x102:
			d.Op = OpSRET
		case d.CSR == 0x105:
			d.Op = OpWFI
		case d.Funct7 == 0b0001001:
			d.Op = OpSFENCEVMA
		}
	case 0b001:
		d.Op, d.Imm = OpCSRRW, int64(d.Rs1)
	case 0b010:
		d.Op, d.Imm = OpCSRRS, int64(d.Rs1)
	case 0b011:
		d.Op, d.Imm = OpCSRRC, int64(d.Rs1)
	case 0b101:
		d.Op, d.Imm = OpCSRRWI, int64(d.Rs1)
	case 0b110:
		d.Op, d.Imm = OpCSRRSI, int64(d.Rs1)
	case 0b111:
		d.Op, d.Imm = OpCSRRCI, int64(d.Rs1)
	}
}

func decodeAMO(d *Decoded, raw uint32) {
	funct5 := bits(raw, 31, 27)
	d.Aq = bits(raw, 26, 26) != 0
	d.Rl = bits(raw, 25, 25) != 0

	is64 := d.Funct3 == 0b011

	var base Op

	switch funct5 {
	case 0b00010:
		base, d.AMO = pick(is64, OpLRD, OpLRW), AMOLR
	case 0b00011:
		base, d.AMO = pick(is64, OpSCD, OpSCW), AMOSC
	case 0b00001:
		base, d.AMO = pick(is64, OpAMOSWAPD, OpAMOSWAPW), AMOSwap
	case 0b00000:
		base, d.AMO = pick(is64, OpAMOADDD, OpAMOADDW), AMOAdd
	case 0b00100:
		base, d.AMO = pick(is64, OpAMOXORD, OpAMOXORW), AMOXor
	case 0b01100:
		base, d.AMO = pick(is64, OpAMOANDD, OpAMOANDW), AMOAnd
	case 0b01000:
		base, d.AMO = pick(is64, OpAMOORD, OpAMOORW), AMOOr
	case 0b10000:
		base, d.AMO = pick(is64, OpAMOMIND, OpAMOMINW), AMOMin
	case 0b10100:
		base, d.AMO = pick(is64, OpAMOMAXD, OpAMOMAXW), AMOMax
	case 0b11000:
		base, d.AMO = pick(is64, OpAMOMINUD, OpAMOMINUW), AMOMinu
	case 0b11100:
		base, d.AMO = pick(is64, OpAMOMAXUD, OpAMOMAXUW), AMOMaxu
	default:
		return
	}

	d.Op = base
	d.Width = WidthWord
	if is64 {
		d.Width = WidthDouble
	}
}

func decodeOpFP(d *Decoded, raw uint32) {
	funct5 := bits(raw, 31, 27)
	fmt := bits(raw, 26, 25) // 0 = single, 1 = double
	isD := fmt == 1

	switch funct5 {
	case 0b00000:
		d.Op = pick(isD, OpFADDD, OpFADDS)
	case 0b00001:
		d.Op = pick(isD, OpFSUBD, OpFSUBS)
	case 0b00010:
		d.Op = pick(isD, OpFMULD, OpFMULS)
	case 0b00011:
		d.Op = pick(isD, OpFDIVD, OpFDIVS)
	case 0b01011:
		d.Op = pick(isD, OpFSQRTD, OpFSQRTS)
	case 0b00100:
		switch d.Funct3 {
		case 0:
			d.Op = pick(isD, OpFSGNJD, OpFSGNJS)
		case 1:
			d.Op = pick(isD, OpFSGNJND, OpFSGNJNS)
		case 2:
			d.Op = pick(isD, OpFSGNJXD, OpFSGNJXS)
		}
	case 0b00101:
		d.Op = pick(d.Funct3 == 1, pick(isD, OpFMAXD, OpFMAXS), pick(isD, OpFMIND, OpFMINS))
	case 0b10100:
		switch d.Funct3 {
		case 0:
			d.Op = pick(isD, OpFLED, OpFLES)
		case 1:
			d.Op = pick(isD, OpFLTD, OpFLTS)
		case 2:
			d.Op = pick(isD, OpFEQD, OpFEQS)
		}
	case 0b11100:
		if d.Funct3 == 0 {
			d.Op = pick(isD, OpFMVXD, OpFMVXW)
		} else {
			d.Op = pick(isD, OpFCLASSD, OpFCLASSS)
		}
	case 0b11110:
		d.Op = pick(isD, OpFMVDX, OpFMVWX)
	case 0b01000:
		if isD {
			d.Op = OpFCVTSD
		} else {
			d.Op = OpFCVTDS
		}
	case 0b11000:
		switch d.Rs2 {
		case 0:
			d.Op = pick(isD, OpFCVTWD, OpFCVTWS)
		case 1:
			d.Op = pick(isD, OpFCVTWUD, OpFCVTWUS)
		case 2:
			d.Op = pick(isD, OpFCVTLD, OpFCVTLS)
		case 3:
			d.Op = pick(isD, OpFCVTLUD, OpFCVTLUS)
		}
	case 0b11010:
		switch d.Rs2 {
		case 0:
			d.Op = pick(isD, OpFCVTDW, OpFCVTSW)
		case 1:
			d.Op = pick(isD, OpFCVTDWU, OpFCVTSWU)
		case 2:
			d.Op = pick(isD, OpFCVTDL, OpFCVTSL)
		case 3:
			d.Op = pick(isD, OpFCVTDLU, OpFCVTSLU)
		}
	}
}

func decodeFMA(d *Decoded, base uint32, raw uint32) {
	isD := bits(raw, 26, 25) == 1

	switch base {
	case baseMADD:
		d.Op = pick(isD, OpFMADDD, OpFMADDS)
	case baseMSUB:
		d.Op = pick(isD, OpFMSUBD, OpFMSUBS)
	case baseNMSUB:
		d.Op = pick(isD, OpFNMSUBD, OpFNMSUBS)
	case baseNMADD:
		d.Op = pick(isD, OpFNMADDD, OpFNMADDS)
	}
}
