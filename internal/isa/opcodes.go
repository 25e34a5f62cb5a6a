// Package isa decodes, encodes, and disassembles RV64GC instructions. It has no dependency on the
// simulator core: decode is a pure function from a 32-bit (or, after RVC expansion, originally
// 16-bit) encoding to a Decoded value, exactly as spec'd in §1 ("the disassembler ... is a pure
// function over encodings").
package isa

// Op identifies the decoded operation. It is independent of encoding width: compressed
// instructions decode to the same Op values as their 32-bit equivalents.
type Op uint16

//go:generate go run golang.org/x/tools/cmd/stringer -type Op -output op_string.go

const (
	OpIllegal Op = iota

	// RV64I
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLD
	OpLBU
	OpLHU
	OpLWU
	OpSB
	OpSH
	OpSW
	OpSD
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpFENCE
	OpFENCEI
	OpECALL
	OpEBREAK
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	// Zicsr
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI

	// privileged
	OpMRET
	OpSRET
	OpWFI
	OpSFENCEVMA

	// M
	OpMUL
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW

	// A
	OpLRW
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW
	OpLRD
	OpSCD
	OpAMOSWAPD
	OpAMOADDD
	OpAMOXORD
	OpAMOANDD
	OpAMOORD
	OpAMOMIND
	OpAMOMAXD
	OpAMOMINUD
	OpAMOMAXUD

	// F/D
	OpFLW
	OpFSW
	OpFLD
	OpFSD
	OpFADDS
	OpFSUBS
	OpFMULS
	OpFDIVS
	OpFSQRTS
	OpFSGNJS
	OpFSGNJNS
	OpFSGNJXS
	OpFMINS
	OpFMAXS
	OpFCVTWS
	OpFCVTWUS
	OpFCVTSW
	OpFCVTSWU
	OpFMVXW
	OpFMVWX
	OpFEQS
	OpFLTS
	OpFLES
	OpFCLASSS
	OpFCVTLS
	OpFCVTLUS
	OpFCVTSL
	OpFCVTSLU
	OpFADDD
	OpFSUBD
	OpFMULD
	OpFDIVD
	OpFSQRTD
	OpFSGNJD
	OpFSGNJND
	OpFSGNJXD
	OpFMIND
	OpFMAXD
	OpFCVTSD
	OpFCVTDS
	OpFEQD
	OpFLTD
	OpFLED
	OpFCLASSD
	OpFCVTWD
	OpFCVTWUD
	OpFCVTDW
	OpFCVTDWU
	OpFCVTLD
	OpFCVTLUD
	OpFCVTDL
	OpFCVTDLU
	OpFMVXD
	OpFMVDX
	OpFMADDS
	OpFMSUBS
	OpFNMSUBS
	OpFNMADDS
	OpFMADDD
	OpFMSUBD
	OpFNMSUBD
	OpFNMADDD

	numOps
)

// Width is a memory access width in bytes, per §3's control-signal record.
type Width uint8

const (
	WidthByte   Width = 1
	WidthHalf   Width = 2
	WidthWord   Width = 4
	WidthDouble Width = 8
)

// Base opcode field (bits 6:0) values for the 32-bit encoding, per the unprivileged spec.
const (
	baseLOAD     = 0x03
	baseLOADFP   = 0x07
	baseMISCMEM  = 0x0f
	baseOPIMM    = 0x13
	baseAUIPC    = 0x17
	baseOPIMM32  = 0x1b
	baseSTORE    = 0x23
	baseSTOREFP  = 0x27
	baseAMO      = 0x2f
	baseOP       = 0x33
	baseLUI      = 0x37
	baseOP32     = 0x3b
	baseMADD     = 0x43
	baseMSUB     = 0x47
	baseNMSUB    = 0x4b
	baseNMADD    = 0x4f
	baseOPFP     = 0x53
	baseBRANCH   = 0x63
	baseJALR     = 0x67
	baseJAL      = 0x6f
	baseSYSTEM   = 0x73
)

// AMO sub-operation, extracted from funct5 of an AMO encoding; used by the memory stage to
// dispatch the atomic read-modify-write per §4.8's Memory stage, step 4.
type AMOOp uint8

const (
	AMOSwap AMOOp = iota
	AMOAdd
	AMOXor
	AMOAnd
	AMOOr
	AMOMin
	AMOMax
	AMOMinu
	AMOMaxu
	AMOLR
	AMOSC
)
