package isa

import "testing"

func TestDisassemble(t *testing.T) {
	cases := []struct {
		raw  uint32
		want string
	}{
		{0x00150513, "addi a0, a0, 1"},
		{0x00b50533, "add a0, a0, a1"},
		{0x00052503, "lw a0, 0(a0)"},
		{0x00a5a023, "sw a0, 0(a1)"},
		{0x00000073, "ecall"},
		{0x30200073, "mret"},
		{0x00000000, "illegal 0x00000000"},
	}

	for _, c := range cases {
		c := c

		t.Run(c.want, func(t *testing.T) {
			t.Parallel()

			got := Disassemble(Decode(c.raw))
			if got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}
