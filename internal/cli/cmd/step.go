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
)

// Step is the command that single-steps a program, printing each retired instruction and the
// resulting program counter.
//
//	rvsim step [-config file.toml] [-n count] program.bin
func Step() cli.Command {
	return &stepper{count: 10}
}

type stepper struct {
	configPath string
	count      int
}

func (stepper) Description() string {
	return "single-step a program, printing each retired instruction"
}

func (stepper) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `step [-config file.toml] [-n count] program.bin

Step a program one instruction at a time, disassembling each as it retires.`)

	return err
}

func (s *stepper) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("step", flag.ExitOnError)
	fs.StringVar(&s.configPath, "config", "", "path to a TOML configuration `file`")
	fs.IntVar(&s.count, "n", s.count, "number of instructions to step")

	return fs
}

func (s *stepper) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("step requires an image argument")
		return 1
	}

	cfg, err := loadConfig(s.configPath)
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

	seen := 0

	for i := 0; i < s.count && !cpu.Halted(); i++ {
		if err := cpu.Step(); err != nil {
			logger.Error("step error", "err", err)
			return 2
		}

		for _, e := range cpu.Trace().Entries()[seen:] {
			d := isa.Decode(e.Raw)
			fmt.Fprintf(stdout, "%#010x: %s\n", e.PC, isa.Disassemble(d))
		}

		seen = len(cpu.Trace().Entries())
	}

	if cpu.Halted() {
		fmt.Fprintf(stdout, "halted, exit code %d\n", cpu.ExitCode())
	}

	return 0
}
