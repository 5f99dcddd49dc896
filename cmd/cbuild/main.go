// Command cbuild is the CLI driver for the cbuild build orchestrator: it
// parses the command line, wires up an Orchestrator, and runs the
// build/clean/rebuild/init pipeline.
package main

import (
	"fmt"
	"os"

	"github.com/gocbuild/cbuild"
)

func funcmain() error {
	pa, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	if pa.help || pa.command == "help" {
		printUsage()
		return nil
	}

	ctx, cancel := cbuild.InterruptibleContext()
	defer cancel()

	switch pa.command {
	case "build":
		return runBuild(ctx, pa)
	case "clean":
		return runClean(ctx, pa)
	case "rebuild":
		return runRebuild(ctx, pa)
	case "init":
		return runInit(pa)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", pa.command)
	}
}

func main() {
	if err := funcmain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
