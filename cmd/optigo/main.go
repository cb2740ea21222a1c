package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "solve":
		if err := solve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("optigo version " + version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`optigo - LP/MIP optimization service

Usage:
  optigo <command> [options]

Commands:
  serve      Run the HTTP optimization service
  solve      Solve a problem description from a file
  validate   Validate a problem description without solving
  help       Show this help message
  version    Show version information

Examples:
  # Start the service (port from OPTIGO_PORT, default 8080)
  optigo serve

  # Solve a problem from a file with a 10 second limit
  optigo solve problem.json --time-limit 10

  # Check a description without touching the solver
  optigo validate problem.json

For command-specific help, run:
  optigo <command> --help`)
}
