package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	qe "github.com/shubics/qeplotter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// run dispatches args to a subcommand and returns the exit status.
func run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		printUsage()
		return report(errUsage)
	}
	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "bands":
		err = runBands(ctx, rest)
	case "dos":
		err = runDOS(ctx, rest)
	case "pdos":
		err = runPDOS(ctx, rest)
	case "bandsdos":
		err = runBandsDOS(ctx, rest)
	case "gap":
		err = runGap(ctx, rest)
	case "version":
		err = runVersion(ctx, rest)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		err = errUsage
	}
	if err != nil {
		return report(err)
	}
	return 0
}

// report prints err, and the chain of functions it went through, if known.
// It returns the exit status.
func report(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	fmt.Fprintf(os.Stderr, "qeplotter: %v\n", err)
	var qerr qe.Error
	if errors.As(err, &qerr) {
		if deco := qerr.Decorate(""); len(deco) > 0 {
			fmt.Fprintf(os.Stderr, "  in: %v\n", deco)
		}
	}
	return 1
}

func printUsage() {
	fmt.Println(`qeplotter - Quantum ESPRESSO band structure and DOS plotting tool

Usage:
  qeplotter <command> [options] <files>

Commands:
  bands      Plot a band structure (bands.dat.gnu or filband files)
  dos        Plot a total density of states (dos.x output)
  pdos       Plot projected densities of states (projwfc.x outputs)
  bandsdos   Plot a band structure next to its DOS or PDOS
  gap        Report the band gap of a band structure
  version    Print the package metadata

Use "qeplotter <command> -h" for more information about a command.`)
}
