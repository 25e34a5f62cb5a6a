// cmd/rvsim is the command-line interface to the simulator and its tool suite.
package main

import (
	"context"
	"os"

	"rv64sim/internal/cli"
	"rv64sim/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Run(),
	cmd.Step(),
	cmd.Disasm(),
	cmd.Info(),
	cmd.Monitor(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
