package main

import "github.com/google/subcommands"

const Version = "0.3.0"

const (
	ExitIngestion   subcommands.ExitStatus = 3
	ExitComputation subcommands.ExitStatus = 4
)
