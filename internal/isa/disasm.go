package isa

import "fmt"

// regNames are the RISC-V ABI mnemonic names for the integer register file, used by Disassemble
// in place of the raw x<N> numbering.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func reg(n uint8) string {
	if int(n) < len(regNames) {
		return regNames[n]
	}
	return fmt.Sprintf("x%d", n)
}

// Disassemble renders a decoded instruction as assembler-like text, e.g. "addi a0, a0, 1". It is
// a pure function over a Decoded value; the fetch/decode pipeline stages never call it, only the
// monitor and disasm CLI commands do.
func Disassemble(d Decoded) string {
	if d.Op == OpIllegal {
		return fmt.Sprintf("illegal 0x%08x", d.Raw)
	}

	switch formatTable[d.Op] {
	case "R":
		return fmt.Sprintf("%s %s, %s, %s", mnemonic(d.Op), reg(d.Rd), reg(d.Rs1), reg(d.Rs2))
	case "I":
		if isLoad(d.Op) {
			return fmt.Sprintf("%s %s, %d(%s)", mnemonic(d.Op), reg(d.Rd), d.Imm, reg(d.Rs1))
		}
		return fmt.Sprintf("%s %s, %s, %d", mnemonic(d.Op), reg(d.Rd), reg(d.Rs1), d.Imm)
	case "S":
		return fmt.Sprintf("%s %s, %d(%s)", mnemonic(d.Op), reg(d.Rs2), d.Imm, reg(d.Rs1))
	case "B":
		return fmt.Sprintf("%s %s, %s, %d", mnemonic(d.Op), reg(d.Rs1), reg(d.Rs2), d.Imm)
	case "U":
		return fmt.Sprintf("%s %s, 0x%x", mnemonic(d.Op), reg(d.Rd), uint32(d.Imm)>>12)
	case "J":
		return fmt.Sprintf("%s %s, %d", mnemonic(d.Op), reg(d.Rd), d.Imm)
	}

	return disassembleSpecial(d)
}

func isLoad(op Op) bool {
	switch op {
	case OpLB, OpLH, OpLW, OpLD, OpLBU, OpLHU, OpLWU, OpFLW, OpFLD:
		return true
	}
	return false
}

func disassembleSpecial(d Decoded) string {
	switch d.Op {
	case OpFENCE:
		return "fence"
	case OpFENCEI:
		return "fence.i"
	case OpECALL:
		return "ecall"
	case OpEBREAK:
		return "ebreak"
	case OpMRET:
		return "mret"
	case OpSRET:
		return "sret"
	case OpWFI:
		return "wfi"
	case OpSFENCEVMA:
		return fmt.Sprintf("sfence.vma %s, %s", reg(d.Rs1), reg(d.Rs2))
	case OpCSRRW, OpCSRRS, OpCSRRC:
		return fmt.Sprintf("%s %s, 0x%x, %s", mnemonic(d.Op), reg(d.Rd), d.CSR, reg(uint8(d.Imm)))
	case OpCSRRWI, OpCSRRSI, OpCSRRCI:
		return fmt.Sprintf("%s %s, 0x%x, %d", mnemonic(d.Op), reg(d.Rd), d.CSR, d.Imm)
	}

	if isAMO(d.Op) {
		return fmt.Sprintf("%s %s, %s, (%s)", mnemonic(d.Op), reg(d.Rd), reg(d.Rs2), reg(d.Rs1))
	}

	return mnemonic(d.Op)
}

func isAMO(op Op) bool {
	switch op {
	case OpLRW, OpSCW, OpAMOSWAPW, OpAMOADDW, OpAMOXORW, OpAMOANDW, OpAMOORW,
		OpAMOMINW, OpAMOMAXW, OpAMOMINUW, OpAMOMAXUW,
		OpLRD, OpSCD, OpAMOSWAPD, OpAMOADDD, OpAMOXORD, OpAMOANDD, OpAMOORD,
		OpAMOMIND, OpAMOMAXD, OpAMOMINUD, OpAMOMAXUD:
		return true
	}
	return false
}

// mnemonic lower-cases and strips the Op prefix from the generated String() method, e.g.
// OpADDI.String() == "OpADDI" becomes "addi".
func mnemonic(op Op) string {
	s := op.String()
	if len(s) > 2 && s[:2] == "Op" {
		s = s[2:]
	}

	out := make([]byte, 0, len(s)+2)
	for i, c := range []byte(s) {
		if c >= 'A' && c <= 'Z' {
			c = c - 'A' + 'a'
		}
		out = append(out, c)
		_ = i
	}

	return insertDots(string(out), op)
}

// insertDots restores the conventional "." for fence.i and sfence.vma. Other dotted mnemonics
// (AMO, LR/SC, F/D) keep the bare lower-cased identifier, e.g. "amoswapw".
func insertDots(s string, op Op) string {
	switch op {
	case OpFENCEI:
		return "fence.i"
	case OpSFENCEVMA:
		return "sfence.vma"
	}

	return s
}
