package core

import (
	"context"
	"testing"

	"rv64sim/internal/isa"
)

// newTestCPU builds a small bare-metal CPU: a 64K RAM window starting at 0, direct mode enabled
// so ECALL with a7=93 halts the simulation the way a freestanding test program expects.
func newTestCPU() *CPU {
	cfg := Default()
	cfg.System.RAMBase = 0
	cfg.System.RAMSizeBytes = 64 << 10
	cfg.General.StartPC = 0
	cfg.General.InitialSP = 0x8000
	cfg.General.DirectMode = true
	cfg.Memory.Controller = MemoryControllerSimple
	cfg.Cache = CacheTiers{}

	return New(cfg)
}

// writeProgram encodes each instruction and places it sequentially starting at RAM offset 0.
func writeProgram(c *CPU, instrs []isa.Decoded) {
	ram := c.Bus().RAM()
	bytes := ram.Bytes()

	for i, d := range instrs {
		word := isa.Encode(d)
		off := i * 4
		bytes[off+0] = byte(word)
		bytes[off+1] = byte(word >> 8)
		bytes[off+2] = byte(word >> 16)
		bytes[off+3] = byte(word >> 24)
	}
}

func addi(rd, rs1 uint8, imm int64) isa.Decoded {
	return isa.Decoded{Op: isa.OpADDI, Rd: rd, Rs1: rs1, Imm: imm}
}

func add(rd, rs1, rs2 uint8) isa.Decoded {
	return isa.Decoded{Op: isa.OpADD, Rd: rd, Rs1: rs1, Rs2: rs2}
}

func runUntilHalt(t *testing.T, c *CPU, maxSteps int) {
	t.Helper()

	for i := 0; i < maxSteps; i++ {
		if c.Halted() {
			return
		}

		if err := c.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}

	if !c.Halted() {
		t.Fatalf("program did not halt within %d steps", maxSteps)
	}
}

// exitWith appends the a0=codeReg / a7=93 / ECALL sequence that direct mode recognizes as
// SYS_EXIT to prog.
func exitWith(prog []isa.Decoded, codeReg uint8) []isa.Decoded {
	return append(prog,
		addi(10, codeReg, 0),
		addi(17, 0, 93),
		isa.Decoded{Op: isa.OpECALL},
	)
}

func TestCPU_AddImmediateSequence(t *testing.T) {
	t.Parallel()

	c := newTestCPU()
	writeProgram(c, exitWith([]isa.Decoded{
		addi(5, 0, 10),
		addi(6, 0, 32),
		add(7, 5, 6),
	}, 7))

	runUntilHalt(t, c, 64)

	if got := c.IntRegister(7); got != 42 {
		t.Errorf("x7 = %d, want 42", got)
	}

	if c.ExitCode() != 42 {
		t.Errorf("ExitCode() = %d, want 42", c.ExitCode())
	}
}

func TestCPU_BranchMispredictionRedirects(t *testing.T) {
	t.Parallel()

	c := newTestCPU()

	// x5 = 1; BEQ x5,x0,+16 (not taken, since x5 != 0); x6 = 0x11; JAL x0,+12 (skip the dead code);
	// x6 = 0x22 (dead code if branch correctly not-taken); a0=x6,a7=93; ECALL.
	prog := []isa.Decoded{
		addi(5, 0, 1),                     // 0: x5 = 1
		{Op: isa.OpBEQ, Rs1: 5, Rs2: 0, Imm: 16}, // 4: not taken
		addi(6, 0, 0x11),                  // 8: x6 = 0x11
		{Op: isa.OpJAL, Rd: 0, Imm: 12},    // 12: skip to 24
		addi(6, 0, 0x22),                  // 16: skipped
		addi(0, 0, 0),                      // 20: padding (unreachable)
		addi(10, 6, 0),                     // 24: a0 = x6
		addi(17, 0, 93),                    // 28: a7 = 93
		{Op: isa.OpECALL},                  // 32
	}
	writeProgram(c, prog)

	runUntilHalt(t, c, 128)

	if c.ExitCode() != 0x11 {
		t.Errorf("ExitCode() = %#x, want 0x11", c.ExitCode())
	}
}

func TestCPU_LoadStoreRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCPU()

	const scratch = 0x1000

	prog := []isa.Decoded{
		addi(5, 0, int64(scratch)),                                   // x5 = scratch addr
		addi(6, 0, 0x55),                                              // x6 = 0x55
		{Op: isa.OpSW, Rs1: 5, Rs2: 6, Imm: 0},                        // mem[x5] = x6
		{Op: isa.OpLW, Rd: 7, Rs1: 5, Imm: 0},                         // x7 = mem[x5]
		addi(10, 7, 0),                                                // a0 = x7
		addi(17, 0, 93),                                               // a7 = 93
		{Op: isa.OpECALL},
	}
	writeProgram(c, prog)

	runUntilHalt(t, c, 128)

	if c.ExitCode() != 0x55 {
		t.Errorf("ExitCode() = %#x, want 0x55 (load did not see the stored value)", c.ExitCode())
	}
}

func TestCPU_LoadUseHazardStalls(t *testing.T) {
	t.Parallel()

	c := newTestCPU()

	const scratch = 0x2000

	prog := []isa.Decoded{
		addi(5, 0, int64(scratch)),
		addi(6, 0, 7),
		{Op: isa.OpSW, Rs1: 5, Rs2: 6, Imm: 0},
		{Op: isa.OpLW, Rd: 7, Rs1: 5, Imm: 0}, // loaded value immediately consumed below
		add(10, 7, 0),                          // a0 = x7 + x0, depends on the load result
		addi(17, 0, 93),
		{Op: isa.OpECALL},
	}
	writeProgram(c, prog)

	runUntilHalt(t, c, 128)

	if c.ExitCode() != 7 {
		t.Errorf("ExitCode() = %d, want 7 (load-use hazard produced a stale value)", c.ExitCode())
	}
}

func TestCPU_DirectModeFallsOffEndOfProgramExitsZero(t *testing.T) {
	t.Parallel()

	c := newTestCPU()
	writeProgram(c, []isa.Decoded{
		addi(5, 0, 1), // one real instruction, then straight into the zeroed RAM tail
	})

	runUntilHalt(t, c, 64)

	if c.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0 (falling off the end is a clean direct-mode exit)", c.ExitCode())
	}
}

func TestCPU_DirectModeIllegalInstructionExitsOne(t *testing.T) {
	t.Parallel()

	c := newTestCPU()

	ram := c.Bus().RAM()
	bytes := ram.Bytes()
	bytes[0], bytes[1], bytes[2], bytes[3] = 0xff, 0xff, 0xff, 0xff // not a legal encoding

	runUntilHalt(t, c, 64)

	if c.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1 (a genuine illegal instruction is fatal in direct mode)", c.ExitCode())
	}
}

func TestCPU_RunUntilExitRespectsContextCancellation(t *testing.T) {
	t.Parallel()

	c := newTestCPU()
	writeProgram(c, []isa.Decoded{
		{Op: isa.OpJAL, Rd: 0, Imm: 0}, // infinite self-loop
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := c.RunUntilExit(ctx, 0)
	if ok {
		t.Errorf("RunUntilExit should not report a normal halt after cancellation")
	}

	if err != ErrCancelled {
		t.Errorf("RunUntilExit err = %v, want ErrCancelled", err)
	}
}
