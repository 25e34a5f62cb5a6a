package core

import (
	"context"

	"rv64sim/internal/log"
)

// cpu.go assembles the subsystems in the other internal/core files into the orchestrator that
// §4.8 describes: the five-stage pipeline's latch advance, the interrupt check that precedes it,
// and the run loop the CLI commands drive. Grounded on the teacher's VM type in
// internal/vm/vm.go, which plays the same role for the LC-3: one struct owning every stateful
// subsystem, a Step that advances exactly one unit of simulated work, and a Run loop layered on
// top of Step.
type CPU struct {
	cfg Config

	intRegs IntRegisterFile
	fpRegs  FPRegisterFile
	csr     *CSRFile

	trapHandler *TrapHandler

	bus  *Bus
	itlb *MMU
	dtlb *MMU
	hier *Hierarchy

	bpred *BranchPredictor
	fpu   *FPU

	stats *Stats
	trace *TraceBuffer

	log *log.Logger

	priv Privilege
	pc   Word

	ifidQueue []IFIDEntry
	idex      *IDEXEntry
	exmem     *EXMEMEntry
	memwb     *MEMWBEntry

	// lastWriteback is the entry writebackStage retired this same cycle, consumed by the same
	// cycle's forward() (execute runs after writeback); a MEM/WB result overrides it.
	lastWriteback *MEMWBEntry

	stalled             bool
	waitingForInterrupt bool
	directMode          bool

	halted   bool
	exitCode int
	lastErr  error

	// requestedBreak holds a host-injected TrapRequested, taken at the next instruction
	// boundary rather than spliced into the instruction currently in flight.
	requestedBreak *Trap
}

// New builds a CPU from a validated configuration: register files reset to zero, CSRs at their
// power-on state, the cache hierarchy and TLBs sized per cfg, and the PC at cfg.General.StartPC.
func New(cfg Config) *CPU {
	csr := NewCSRFile()

	ram := NewMainMemory(cfg.Memory, cfg.System.BusLatency, cfg.System.RAMSizeBytes)
	bus := NewBus(cfg.System.RAMBase, ram)

	c := &CPU{
		cfg:         cfg,
		csr:         csr,
		trapHandler: NewTrapHandler(csr),
		bus:         bus,
		itlb:        NewMMU(cfg.Memory.TLBSize, bus),
		dtlb:        NewMMU(cfg.Memory.TLBSize, bus),
		hier:        NewHierarchy(cfg.Cache, ram),
		bpred:       NewBranchPredictor(cfg.Pipeline),
		fpu:         NewFPU(csr),
		stats:       NewStats(),
		priv:        PrivilegeMachine,
		pc:          Word(cfg.General.StartPC),
		directMode:  cfg.General.DirectMode,
		log:         log.DefaultLogger(),
	}

	c.intRegs.Set(2, Word(cfg.General.InitialSP)) // sp

	if cfg.General.TraceInstructions {
		c.trace = NewTraceBuffer(1024)
	}

	return c
}

// SetLogger overrides the CPU's logger and threads it to every subsystem that logs on its own,
// following the teacher's withLogger propagation in internal/vm/log.go.
func (c *CPU) SetLogger(l *log.Logger) {
	c.log = l
	c.trapHandler.log = l
	c.hier.log = l
	c.itlb.log = l
	c.dtlb.log = l
}

// Bus exposes the system bus and, through it, the RAM backing store.
func (c *CPU) Bus() *Bus { return c.bus }

// Stats returns the running statistics snapshot.
func (c *CPU) Stats() *Stats { return c.stats }

// Trace returns the instruction trace buffer, or nil if tracing was not enabled.
func (c *CPU) Trace() *TraceBuffer { return c.trace }

// Hierarchy exposes the cache hierarchy.
func (c *CPU) Hierarchy() *Hierarchy { return c.hier }

// PC returns the current program counter.
func (c *CPU) PC() Word { return c.pc }

// SetPC overrides the program counter, used by the run/step/monitor CLI commands to start at the
// loaded image's entry point.
func (c *CPU) SetPC(pc Word) { c.pc = pc }

// Privilege returns the current privilege mode.
func (c *CPU) Privilege() Privilege { return c.priv }

// IntRegister reads integer register r.
func (c *CPU) IntRegister(r uint8) Word { return c.intRegs.Get(r) }

// SetIntRegister writes integer register r.
func (c *CPU) SetIntRegister(r uint8, v Word) { c.intRegs.Set(r, v) }

// FPRegister reads floating-point register r as a raw double-precision bit pattern.
func (c *CPU) FPRegister(r uint8) Word { return c.fpRegs.GetDouble(r) }

// CSR reads a control/status register by address.
func (c *CPU) CSR(addr uint16) Word { return c.csr.Read(addr) }

// SetCSR writes a control/status register by address.
func (c *CPU) SetCSR(addr uint16, v Word) { c.csr.Write(addr, v) }

// Halted reports whether the simulation has exited.
func (c *CPU) Halted() bool { return c.halted }

// ExitCode returns the exit code recorded when the simulation halted.
func (c *CPU) ExitCode() int { return c.exitCode }

// RequestTrap injects a synthetic TrapRequested breakpoint, taken at the next instruction
// boundary without modifying any guest state: once the pipeline is empty, Tick halts with
// exitCode. None of the CLI commands call it.
func (c *CPU) RequestTrap(exitCode int) {
	c.requestedBreak = &Trap{Kind: TrapRequested, ExitCode: exitCode}
}

// Tick advances every pipeline stage by one cycle. Stages run in reverse logical order --
// writeback, memory, execute, decode, fetch -- so that each stage drains its input latch before
// the stage ahead of it refills that latch later in the very same call, modelling one
// latch-advance per tick without double-buffering every latch. The visible effect: a load sitting in EX/MEM at
// the start of the tick has already moved to MEM/WB by the time decode's load-use check and
// execute's forward() run later in the same tick.
func (c *CPU) Tick() {
	if c.halted {
		return
	}

	c.log.Debug("tick", "pc", c.pc, "priv", c.priv, "cycle", c.stats.Cycles)

	c.stats.AccumulateCycleByPrivilege(c.priv)

	timerIRQ, extIRQM, extIRQS := c.bus.Tick()
	c.updateMIP(timerIRQ, extIRQM, extIRQS)

	if c.waitingForInterrupt {
		if pending := c.csr.Read(CSRMip) & c.csr.Read(CSRMie); pending != 0 {
			c.waitingForInterrupt = false
		} else {
			return
		}
	}

	if c.requestedBreak != nil && c.pipelineIdle() {
		c.halted = true
		c.exitCode = c.requestedBreak.ExitCode
		c.requestedBreak = nil

		return
	}

	if trap, ok := c.pendingInterrupt(); ok && c.pipelineIdle() {
		c.takeAsyncInterrupt(trap)
		return
	}

	c.stalled = false

	c.writebackStage()
	c.memoryStage()
	c.executeStage()
	c.decodeStage()
	c.fetchStage()
}

// pipelineIdle reports whether every latch is empty, the point at which an asynchronous
// interrupt is safe to inject without discarding an in-flight instruction.
func (c *CPU) pipelineIdle() bool {
	return len(c.ifidQueue) == 0 && c.idex == nil && c.exmem == nil && c.memwb == nil
}

func (c *CPU) takeAsyncInterrupt(trap Trap) {
	c.stats.TrapsTaken++

	newPriv, newPC, err := c.trapHandler.Enter(trap, c.pc, c.priv)
	if err != nil {
		c.halted = true
		c.exitCode = exitCodeDoubleFault
		c.lastErr = err

		return
	}

	c.log.Info("trap", "cause", trap.Kind, "priv", newPriv, "pc", newPC)

	c.priv = newPriv
	c.pc = newPC
}

func (c *CPU) updateMIP(timerIRQ, extIRQM, extIRQS bool) {
	setOrClear := func(bit Word, level bool) {
		if level {
			c.csr.SetBits(CSRMip, bit)
		} else {
			c.csr.ClearBits(CSRMip, bit)
		}
	}

	setOrClear(1<<7, timerIRQ)
	setOrClear(1<<11, extIRQM)
	setOrClear(1<<9, extIRQS)
}

// pendingInterrupt selects the highest-priority pending, individually-enabled interrupt that is
// also unmasked at the current privilege, per the priority order of the privileged spec
// (external, software, timer; machine before supervisor).
func (c *CPU) pendingInterrupt() (Trap, bool) {
	pending := c.csr.Read(CSRMip) & c.csr.Read(CSRMie)
	if pending == 0 {
		return Trap{}, false
	}

	mstatus := c.csr.Read(CSRMstatus)

	candidates := []struct {
		bit   uint
		kind  TrapKind
		level Privilege
	}{
		{11, TrapExternalInterruptM, PrivilegeMachine},
		{3, TrapSoftwareInterruptM, PrivilegeMachine},
		{7, TrapTimerInterruptM, PrivilegeMachine},
		{9, TrapExternalInterruptS, PrivilegeSupervisor},
		{1, TrapSoftwareInterruptS, PrivilegeSupervisor},
		{5, TrapTimerInterruptS, PrivilegeSupervisor},
	}

	for _, cand := range candidates {
		if pending&(1<<cand.bit) == 0 {
			continue
		}

		if !c.interruptUnmasked(cand.level, mstatus) {
			continue
		}

		return Trap{Kind: cand.kind}, true
	}

	return Trap{}, false
}

func (c *CPU) interruptUnmasked(level Privilege, mstatus Word) bool {
	if c.priv < level {
		return true
	}

	if c.priv > level {
		return false
	}

	if level == PrivilegeMachine {
		return mstatus&mstatusMIE != 0
	}

	return mstatus&mstatusSIE != 0
}

// Step runs ticks until one instruction retires or traps, or the fixed per-step cycle budget
// (maxCyclesPerStep) is exhausted (a guard against an infinite stall masking a simulator bug).
func (c *CPU) Step() error {
	if c.halted {
		return ErrHalted
	}

	retiredBefore := c.stats.InstructionsRetired
	trapsBefore := c.stats.TrapsTaken

	const maxCyclesPerStep = 1 << 20

	for i := 0; i < maxCyclesPerStep; i++ {
		c.Tick()

		if c.halted {
			return nil
		}

		if c.stats.InstructionsRetired != retiredBefore || c.stats.TrapsTaken != trapsBefore {
			return nil
		}
	}

	return nil
}

// RunUntilExit ticks the CPU until it halts, ctx is cancelled, or limit cycles have elapsed
// (limit == 0 means unbounded). It returns the exit code, whether the simulation halted
// normally (as opposed to being cancelled), and any host-level error.
func (c *CPU) RunUntilExit(ctx context.Context, limit uint64) (exitCode int, ok bool, err error) {
	var n uint64

	c.log.Info("START", "pc", c.pc)

	for {
		if c.halted {
			c.log.Info("HALTED", "exit_code", c.exitCode)
			return c.exitCode, true, c.lastErr
		}

		select {
		case <-ctx.Done():
			c.log.Warn("CANCELLED", "pc", c.pc)
			return c.exitCode, false, ErrCancelled
		default:
		}

		c.Tick()
		n++

		if limit != 0 && n >= limit {
			return c.exitCode, false, nil
		}
	}
}
