// Package main is the kflow command line.
//
// kflow routes k units of flow from a source to a sink through a network of
// unit-capacity edges at minimum total cost, then splits the flow into k
// edge paths. The input is read from a file or stdin:
//
//	n m k
//	u1 v1 c1
//	...
//	um vm cm
//
// Vertices are 1-indexed, vertex 1 is the source and vertex n the sink
// unless --source and --sink say otherwise. By default every line is an
// undirected edge; --directed makes it one-way.
//
// # Commands
//
//	kflow solve   [-i file] [-o file] [-f format] [--directed] [--timeout d]
//	kflow history list|show|delete
//	kflow migrate up|down|status
//
// The default text report is the average cost per unit with six decimals
// followed by one line per path: the number of edges and their input line
// numbers. An infeasible problem prints -1 and still exits 0.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Command line flags
//  2. Environment variables (prefix: KFLOW_)
//  3. Config file (--config, CONFIG_PATH, config.yaml, configs/config.yaml)
//  4. Default values
//
// # Exit codes
//
//	0  success, including an infeasible problem
//	1  unclassified failure
//	2  invalid input or unknown run
//	3  failed precondition (negative cycle)
//	4  timeout or interrupt
//	69 database or cache unavailable
//	70 internal error
package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"

	"kflow/pkg/apperror"
	"kflow/pkg/logger"
)

// globalOptions разделяются всеми командами
type globalOptions struct {
	Config    string `short:"c" long:"config" description:"Path to YAML config file"`
	LogLevel  string `long:"log-level" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Override log.level"`
	LogFormat string `long:"log-format" choice:"text" choice:"json" description:"Override log.format"`
}

var (
	globalCfg = new(globalOptions)

	flagParser = flags.NewParser(globalCfg, flags.Default)

	cmdHistory = mustAddCmd(flagParser.Command, "history", "Inspect stored runs",
		"List, show and delete runs saved by the postgres history backend", &struct{}{})
	cmdMigrate = mustAddCmd(flagParser.Command, "migrate", "Manage database schema",
		"Apply, roll back and inspect the embedded goose migrations", &struct{}{})
)

func mustAddCmd(cmd *flags.Command, name, short, long string, cfg any) *flags.Command {
	c, err := cmd.AddCommand(name, short, long, cfg)
	if err != nil {
		logger.Fatal("failed to add command", apperror.ExitInternal, "command", name, "error", err)
	}
	return c
}

func main() {
	flagParser.Name = "kflow"

	// Ошибки уже напечатаны go-flags (flags.PrintErrors)
	if _, err := flagParser.Parse(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode переводит ошибку команды в код завершения процесса
func exitCode(err error) int {
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) {
		if flagsErr.Type == flags.ErrHelp {
			return apperror.ExitOK
		}
		return apperror.ExitInvalidArgument
	}
	return apperror.ExitCode(err)
}
