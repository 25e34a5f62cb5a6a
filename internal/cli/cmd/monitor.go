package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"rv64sim/internal/cli"
	"rv64sim/internal/core"
	"rv64sim/internal/isa"
	"rv64sim/internal/log"
	"rv64sim/internal/tty"
)

// Monitor is the interactive single-stepper: each keypress retires one instruction and prints
// the resulting PC, the instruction just retired, and a handful of registers. 'q' quits.
//
//	rvsim monitor [-config file.toml] program.bin
func Monitor() cli.Command {
	return new(monitor)
}

type monitor struct {
	configPath string
}

func (monitor) Description() string {
	return "interactively single-step a program, one keypress per instruction"
}

func (monitor) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `monitor [-config file.toml] program.bin

Step a program one keypress at a time, printing PC, the retired instruction, and registers.
Press 'q' to quit.`)

	return err
}

func (m *monitor) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	fs.StringVar(&m.configPath, "config", "", "path to a TOML configuration `file`")

	return fs
}

func (m *monitor) Run(ctx context.Context, args []string, _ io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("monitor requires an image argument")
		return 1
	}

	cfg, err := loadConfig(m.configPath)
	if err != nil {
		logger.Error("config error", "err", err)
		return 1
	}

	cfg.General.TraceInstructions = true

	cpu := core.New(*cfg)
	cpu.SetLogger(logger)

	data, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read error", "file", args[0], "err", err)
		return 1
	}

	entry, err := cpu.LoadImage(data)
	if err != nil {
		logger.Error("load error", "file", args[0], "err", err)
		return 1
	}

	cpu.SetPC(entry)

	ctx, console, cancel := tty.WithConsole(ctx)
	defer cancel()

	if console == nil {
		logger.Error("monitor requires an interactive terminal", "err", tty.ErrNoTTY)
		return 1
	}

	out := console.Writer()
	fmt.Fprintf(out, "loaded, entry %#010x. press any key to step, 'q' to quit.\r\n", entry)

	seen := 0

	for {
		select {
		case <-ctx.Done():
			return 0
		case key := <-console.Keys():
			if key == 'q' {
				return 0
			}

			if cpu.Halted() {
				fmt.Fprintf(out, "halted, exit code %d\r\n", cpu.ExitCode())
				continue
			}

			if err := cpu.Step(); err != nil {
				fmt.Fprintf(out, "step error: %v\r\n", err)
				continue
			}

			m.printStep(out, cpu, &seen)
		}
	}
}

func (m *monitor) printStep(out io.Writer, cpu *core.CPU, seen *int) {
	entries := cpu.Trace().Entries()

	for _, e := range entries[*seen:] {
		d := isa.Decode(e.Raw)
		fmt.Fprintf(out, "%#010x: %-28s", e.PC, isa.Disassemble(d))
	}

	*seen = len(entries)

	fmt.Fprintf(out, " pc=%#010x a0=%#x a1=%#x sp=%#x\r\n",
		cpu.PC(), cpu.IntRegister(10), cpu.IntRegister(11), cpu.IntRegister(2))

	if cpu.Halted() {
		fmt.Fprintf(out, "halted, exit code %d\r\n", cpu.ExitCode())
	}
}
