package isa

import "testing"

func TestExpandCompressed(t *testing.T) {
	t.Run("reserved all-zero", func(t *testing.T) {
		t.Parallel()

		_, ok := ExpandCompressed(0x0000)
		if ok {
			t.Fatal("all-zero compressed encoding must be reserved")
		}
	})

	t.Run("C.ADDI4SPN reserved when nzuimm is zero", func(t *testing.T) {
		t.Parallel()

		_, ok := ExpandCompressed(0b000_00000_000_00)
		if ok {
			t.Fatal("C.ADDI4SPN with nzuimm == 0 must be reserved")
		}
	})

	t.Run("C.NOP", func(t *testing.T) {
		t.Parallel()

		raw, ok := ExpandCompressed(0b000_0_00000_00000_01)
		if !ok {
			t.Fatal("C.NOP must expand")
		}

		d := Decode(raw)
		if d.Op != OpADDI || d.Rd != 0 || d.Imm != 0 {
			t.Errorf("want addi x0, x0, 0, got %+v", d)
		}
	})

	t.Run("C.MV", func(t *testing.T) {
		t.Parallel()
		// c.mv a0, a1: funct4=1000, rd=a0(10), rs2=a1(11)
		raw := uint16(0b1000)<<12 | uint16(10)<<7 | uint16(11)<<2 | 0b10
		d, ok := ExpandCompressed(raw)
		if !ok {
			t.Fatal("C.MV must expand")
		}

		dec := Decode(d)
		if dec.Op != OpADD || dec.Rd != 10 || dec.Rs1 != 0 || dec.Rs2 != 11 {
			t.Errorf("want add a0, x0, a1, got %+v", dec)
		}
	})

	t.Run("C.EBREAK", func(t *testing.T) {
		t.Parallel()

		raw := uint16(0b1001)<<12 | 0b10
		d, ok := ExpandCompressed(raw)
		if !ok {
			t.Fatal("C.EBREAK must expand")
		}

		dec := Decode(d)
		if dec.Op != OpEBREAK {
			t.Errorf("want ebreak, got %s", dec.Op)
		}
	})

	t.Run("C.J", func(t *testing.T) {
		t.Parallel()
		// c.j with offset +0: all immediate fields zero, funct3=101, quadrant 01
		raw := uint16(0b101)<<13 | 0b01
		d, ok := ExpandCompressed(raw)
		if !ok {
			t.Fatal("C.J must expand")
		}

		dec := Decode(d)
		if dec.Op != OpJAL || dec.Rd != 0 {
			t.Errorf("want jal x0, 0, got %+v", dec)
		}
	})
}
