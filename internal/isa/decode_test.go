package isa

import "testing"

func TestDecode(t *testing.T) {
	cases := []struct {
		name string
		raw  uint32
		op   Op
		rd   uint8
		rs1  uint8
		rs2  uint8
		imm  int64
	}{
		// Decode reports the raw bit fields at the rd/rs1/rs2 positions for every format, so I-, B-,
		// U- and J-type rows expect the immediate bits that sit there.
		{"ADDI", 0x00150513, OpADDI, 10, 10, 1, 1},      // addi a0, a0, 1
		{"ADD", 0x00b50533, OpADD, 10, 10, 11, 0},       // add a0, a0, a1
		{"SUB", 0x40b50533, OpSUB, 10, 10, 11, 0},       // sub a0, a0, a1
		{"LW", 0x00052503, OpLW, 10, 10, 0, 0},          // lw a0, 0(a0)
		{"SW", 0x00a5a023, OpSW, 0, 11, 10, 0},          // sw a0, 0(a1)
		{"BEQ", 0x00850463, OpBEQ, 8, 10, 8, 8},         // beq a0, s0, +8
		{"JAL", 0x008000ef, OpJAL, 1, 0, 8, 8},          // jal ra, +8
		{"LUI", 0x12345537, OpLUI, 10, 8, 3, 0x12345000}, // lui a0, 0x12345
		{"ECALL", 0x00000073, OpECALL, 0, 0, 0, 0},
		{"MRET", 0x30200073, OpMRET, 0, 0, 2, 0},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := Decode(c.raw)
			if got.Op != c.op {
				t.Fatalf("op: want %s, got %s", c.op, got.Op)
			}

			if got.Rd != c.rd {
				t.Errorf("rd: want %d, got %d", c.rd, got.Rd)
			}

			if got.Rs1 != c.rs1 {
				t.Errorf("rs1: want %d, got %d", c.rs1, got.Rs1)
			}

			if got.Rs2 != c.rs2 {
				t.Errorf("rs2: want %d, got %d", c.rs2, got.Rs2)
			}

			if got.Imm != c.imm {
				t.Errorf("imm: want %d, got %d", c.imm, got.Imm)
			}
		})
	}
}

func TestDecodeIllegal(t *testing.T) {
	t.Parallel()

	got := Decode(0x00000000)
	if got.Op != OpIllegal {
		t.Fatalf("want OpIllegal for all-zero encoding, got %s", got.Op)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	insts := []uint32{
		0x00150513, // addi a0, a0, 1
		0x00b50533, // add a0, a0, a1
		0x40b50533, // sub a0, a0, a1
		0x00052503, // lw a0, 0(a0)
		0x00a5a023, // sw a0, 0(a1)
		0x00850463, // beq a0, s0, +8
		0x008000ef, // jal ra, +8
		0x12345537, // lui a0, 0x12345
		0x02b54533, // div a0, a0, a1
	}

	for _, raw := range insts {
		raw := raw

		t.Run("", func(t *testing.T) {
			t.Parallel()

			d := Decode(raw)
			if d.Op == OpIllegal {
				t.Fatalf("0x%08x decoded as illegal", raw)
			}

			re := Encode(d)
			rd := Decode(re)

			if rd.Op != d.Op || rd.Rd != d.Rd || rd.Rs1 != d.Rs1 || rd.Rs2 != d.Rs2 || rd.Imm != d.Imm {
				t.Errorf("round trip mismatch: original %+v, re-encoded 0x%08x decoded as %+v", d, re, rd)
			}
		})
	}
}
