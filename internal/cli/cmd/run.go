package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"rv64sim/internal/cli"
	"rv64sim/internal/core"
	"rv64sim/internal/log"
)

// Run is the command that loads a flat binary or ELF64 image and runs it to completion.
//
//	rvsim run [-config rvsim.toml] [-timeout 10s] program.bin
func Run() cli.Command {
	return &runner{timeout: 10 * time.Second}
}

type runner struct {
	configPath string
	timeout    time.Duration
	trace      bool
}

func (runner) Description() string {
	return "run a program to completion"
}

func (runner) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run [-config file.toml] [-timeout dur] [-trace] program.bin

Load an executable image and run it until it exits or the timeout elapses.`)

	return err
}

func (r *runner) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.StringVar(&r.configPath, "config", "", "path to a TOML configuration `file`")
	fs.DurationVar(&r.timeout, "timeout", r.timeout, "wall-clock run timeout")
	fs.BoolVar(&r.trace, "trace", false, "enable per-instruction tracing")

	return fs
}

func (r *runner) Run(ctx context.Context, args []string, stdout io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("run requires an image argument")
		return 1
	}

	cfg, err := loadConfig(r.configPath)
	if err != nil {
		logger.Error("config error", "err", err)
		return 1
	}

	cfg.General.TraceInstructions = r.trace

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

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	logger.Info("Starting machine", "entry", entry, "timeout", r.timeout)

	exitCode, ok, err := cpu.RunUntilExit(ctx, 0)
	if err != nil {
		logger.Error("run error", "err", err)
		return 2
	}

	if !ok {
		logger.Warn("run did not complete before the timeout")
		return 2
	}

	stats := cpu.Stats()
	fmt.Fprintf(stdout, "exit code: %d\n", exitCode)
	fmt.Fprintf(stdout, "instructions retired: %d\n", stats.InstructionsRetired)
	fmt.Fprintf(stdout, "cycles: %d\n", stats.Cycles)
	fmt.Fprintf(stdout, "CPI: %.3f\n", stats.CPI())

	return exitCode
}

// loadConfig reads and validates a TOML configuration file, or returns core.Default() when path
// is empty.
func loadConfig(path string) (*core.Config, error) {
	if path == "" {
		cfg := core.Default()
		return &cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return core.LoadConfig(f)
}
