package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"
)

func newCommander(fs *flag.FlagSet, name string, stdout, stderr io.Writer) *subcommands.Commander {
	commander := subcommands.NewCommander(fs, name)
	commander.Output = stdout
	commander.Error = stderr

	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&ratioCmd{stdout: stdout, stderr: stderr}, "")
	commander.Register(&convertCmd{stderr: stderr}, "")
	commander.Register(&versionCmd{stdout: stdout}, "")
	return commander
}

func main() {
	commander := newCommander(flag.CommandLine, path.Base(os.Args[0]), os.Stdout, os.Stderr)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	cancel()
	os.Exit(int(status))
}
