package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"

	"rv64sim/internal/cli"
	"rv64sim/internal/log"
)

// Info is the command that prints the effective, validated configuration: the memory map,
// cache hierarchy, and pipeline knobs a run or step invocation would use.
//
//	rvsim info [-config file.toml]
func Info() cli.Command {
	return new(infoCmd)
}

type infoCmd struct {
	configPath string
}

func (infoCmd) Description() string {
	return "print the effective simulator configuration"
}

func (infoCmd) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `info [-config file.toml]

Print the effective, validated configuration without running anything.`)

	return err
}

func (i *infoCmd) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	fs.StringVar(&i.configPath, "config", "", "path to a TOML configuration `file`")

	return fs
}

func (i *infoCmd) Run(_ context.Context, _ []string, stdout io.Writer, logger *log.Logger) int {
	cfg, err := loadConfig(i.configPath)
	if err != nil {
		logger.Error("config error", "err", err)
		return 1
	}

	fmt.Fprintf(stdout, "general:\n")
	fmt.Fprintf(stdout, "  start_pc:    %#x\n", cfg.General.StartPC)
	fmt.Fprintf(stdout, "  initial_sp:  %#x\n", cfg.General.InitialSP)
	fmt.Fprintf(stdout, "  direct_mode: %v\n", cfg.General.DirectMode)

	fmt.Fprintf(stdout, "system:\n")
	fmt.Fprintf(stdout, "  ram:    [%#x, %#x)\n", cfg.System.RAMBase, cfg.System.RAMBase+cfg.System.RAMSizeBytes)
	fmt.Fprintf(stdout, "  uart:   %#x\n", cfg.System.UARTBase)
	fmt.Fprintf(stdout, "  disk:   %#x\n", cfg.System.DiskBase)
	fmt.Fprintf(stdout, "  clint:  %#x\n", cfg.System.CLINTBase)
	fmt.Fprintf(stdout, "  syscon: %#x\n", cfg.System.SysconBase)

	fmt.Fprintf(stdout, "memory:\n")
	fmt.Fprintf(stdout, "  controller: %s\n", cfg.Memory.Controller)
	fmt.Fprintf(stdout, "  tlb_size:   %d\n", cfg.Memory.TLBSize)

	type level struct {
		name                       string
		sizeBytes, lineBytes, ways int
		policy                     string
	}

	levels := []level{
		{"l1i", cfg.Cache.L1I.SizeBytes, cfg.Cache.L1I.LineBytes, cfg.Cache.L1I.Ways, string(cfg.Cache.L1I.Policy)},
		{"l1d", cfg.Cache.L1D.SizeBytes, cfg.Cache.L1D.LineBytes, cfg.Cache.L1D.Ways, string(cfg.Cache.L1D.Policy)},
		{"l2", cfg.Cache.L2.SizeBytes, cfg.Cache.L2.LineBytes, cfg.Cache.L2.Ways, string(cfg.Cache.L2.Policy)},
		{"l3", cfg.Cache.L3.SizeBytes, cfg.Cache.L3.LineBytes, cfg.Cache.L3.Ways, string(cfg.Cache.L3.Policy)},
	}

	for _, lvl := range levels {
		fmt.Fprintf(stdout, "  cache.%s: %d bytes, %d-byte lines, %d-way, %s\n",
			lvl.name, lvl.sizeBytes, lvl.lineBytes, lvl.ways, lvl.policy)
	}

	fmt.Fprintf(stdout, "pipeline:\n")
	fmt.Fprintf(stdout, "  width:            %d\n", cfg.Pipeline.Width)
	fmt.Fprintf(stdout, "  branch_predictor: %s\n", cfg.Pipeline.BranchPredictor)
	fmt.Fprintf(stdout, "  out_of_order:     %v\n", cfg.Pipeline.OutOfOrder)

	return 0
}
