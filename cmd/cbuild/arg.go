package main

import (
	"flag"
	"fmt"
)

// parsedArgs is the result of parsing the command line: a command verb plus
// the flags every command accepts.
type parsedArgs struct {
	command  string
	verbose  bool
	file     string
	logFile  string
	help     bool
	flagArgs []string // positional arguments remaining after flag parsing
}

var commands = map[string]bool{
	"build":   true,
	"clean":   true,
	"rebuild": true,
	"init":    true,
	"help":    true,
}

// parseArgs splits argv into a command verb (defaulting to "build" when the
// first token is not a known command or is itself a flag) and the
// verbose/file/log-file/help options that apply to it.
func parseArgs(argv []string) (parsedArgs, error) {
	command := "build"
	rest := argv
	if len(argv) > 0 && commands[argv[0]] {
		command = argv[0]
		rest = argv[1:]
	}

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	var pa parsedArgs
	fs.BoolVar(&pa.verbose, "v", false, "raise log level to DEBUG")
	fs.BoolVar(&pa.verbose, "verbose", false, "raise log level to DEBUG")
	fs.StringVar(&pa.file, "f", "build.c", "use FILE instead of build.c")
	fs.StringVar(&pa.file, "file", "build.c", "use FILE instead of build.c")
	fs.StringVar(&pa.logFile, "log-file", "", "append build log to FILE instead of stderr")
	fs.BoolVar(&pa.help, "h", false, "print usage and exit 0")
	fs.BoolVar(&pa.help, "help", false, "print usage and exit 0")
	fs.Usage = printUsage

	if err := fs.Parse(rest); err != nil {
		return parsedArgs{}, fmt.Errorf("parsing arguments: %w", err)
	}

	pa.command = command
	pa.flagArgs = fs.Args()
	return pa, nil
}
