package main

import (
	"fmt"
	"os"
)

const usage = `cbuild [command] [options]

commands:
  build    run the configuration, then build (default)
  clean    delete the build directory
  rebuild  clean, then run the configuration and build
  init     create a template configuration file
  help     print this message and exit 0

options:
  -v, --verbose       raise log level to DEBUG
  -f, --file FILE     use FILE instead of build.c
  --log-file FILE     append build log to FILE instead of stderr
  -h, --help          print usage and exit 0
`

func printUsage() {
	fmt.Fprint(os.Stderr, usage)
}
