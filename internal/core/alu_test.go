package core

import (
	"testing"

	"rv64sim/internal/isa"
)

func TestExecuteALU_Arithmetic(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		op   isa.Op
		rs1  Word
		rs2  Word
		want Word
	}{
		{"ADD", isa.OpADD, 3, 4, 7},
		{"SUB", isa.OpSUB, 10, 3, 7},
		{"AND", isa.OpAND, 0xff00, 0x0ff0, 0x0f00},
		{"OR", isa.OpOR, 0xff00, 0x00ff, 0xffff},
		{"XOR", isa.OpXOR, 0xff00, 0x0ff0, 0xf0f0},
		{"SLL", isa.OpSLL, 1, 4, 16},
		{"SRL", isa.OpSRL, 0x8000000000000000, 4, 0x0800000000000000},
		{"SRA negative", isa.OpSRA, Word(uint64(0xffffffffffffff00)), 4, Word(uint64(0xfffffffffffffff0))},
		{"SLT true", isa.OpSLT, Word(uint64(0xffffffffffffffff)) /* -1 */, 1, 1},
		{"SLT false", isa.OpSLT, 1, Word(uint64(0xffffffffffffffff)), 0},
		{"SLTU", isa.OpSLTU, 1, Word(uint64(0xffffffffffffffff)), 1},
		{"ADDW sign-extends", isa.OpADDW, 0x7fffffff, 1, Word(uint64(0xffffffff80000000))},
		{"MUL", isa.OpMUL, 6, 7, 42},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ExecuteALU(isa.Decoded{Op: tc.op}, tc.rs1, tc.rs2, 0)
			if got != tc.want {
				t.Errorf("%s(%#x, %#x) = %#x, want %#x", tc.name, tc.rs1, tc.rs2, got, tc.want)
			}
		})
	}
}

func TestExecuteALU_DivisionSpecialCases(t *testing.T) {
	t.Parallel()

	minInt64 := Word(uint64(1) << 63)
	negOne := Word(uint64(0xffffffffffffffff))

	tcs := []struct {
		name string
		op   isa.Op
		rs1  Word
		rs2  Word
		want Word
	}{
		{"DIV by zero", isa.OpDIV, 5, 0, negOne},
		{"DIVU by zero", isa.OpDIVU, 5, 0, Word(uint64(0xffffffffffffffff))},
		{"DIV overflow", isa.OpDIV, minInt64, negOne, minInt64},
		{"REM by zero", isa.OpREM, 5, 0, 5},
		{"REMU by zero", isa.OpREMU, 5, 0, 5},
		{"REM overflow", isa.OpREM, minInt64, negOne, 0},
		{"DIV exact", isa.OpDIV, 42, 6, 7},
		{"REM exact", isa.OpREM, 43, 6, 1},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ExecuteALU(isa.Decoded{Op: tc.op}, tc.rs1, tc.rs2, 0)
			if got != tc.want {
				t.Errorf("%s = %#x, want %#x", tc.name, got, tc.want)
			}
		})
	}
}

func TestBranchTaken(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		op   isa.Op
		rs1  Word
		rs2  Word
		want bool
	}{
		{isa.OpBEQ, 5, 5, true},
		{isa.OpBEQ, 5, 6, false},
		{isa.OpBNE, 5, 6, true},
		{isa.OpBLT, Word(uint64(0xffffffffffffffff)), 1, true},
		{isa.OpBGE, 1, Word(uint64(0xffffffffffffffff)), true},
		{isa.OpBLTU, 1, Word(uint64(0xffffffffffffffff)), true},
		{isa.OpBGEU, Word(uint64(0xffffffffffffffff)), 1, true},
	}

	for _, tc := range tcs {
		if got := BranchTaken(isa.Decoded{Op: tc.op}, tc.rs1, tc.rs2); got != tc.want {
			t.Errorf("BranchTaken(%s, %#x, %#x) = %v, want %v", tc.op, tc.rs1, tc.rs2, got, tc.want)
		}
	}
}
