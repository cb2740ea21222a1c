package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/optigo-xyz/go-optigo/engine"
	"github.com/optigo-xyz/go-optigo/solver"
)

func solve(args []string) error {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	timeLimit := fs.Float64("time-limit", 0, "Solve time limit in seconds (overrides description)")
	gap := fs.Float64("gap", 0, "Relative gap tolerance for integer models")
	outputFile := fs.String("output", "", "Write the JSON response to a file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: optigo solve <problem.json> [options]

Solve a problem description and print the response.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  optigo solve problem.json
  optigo solve problem.json --time-limit 10 --gap 1e-4
  optigo solve problem.json --output response.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("problem file required")
	}

	raw, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}

	var override *solver.Limits
	if *timeLimit > 0 || *gap > 0 {
		override = &solver.Limits{
			TimeLimit:   time.Duration(*timeLimit * float64(time.Second)),
			RelativeGap: *gap,
		}
	}

	eng := engine.New(solver.New(0))
	resp := eng.Handle(context.Background(), raw, override)

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	out = append(out, '\n')

	if *outputFile != "" {
		return os.WriteFile(*outputFile, out, 0o644)
	}
	_, err = os.Stdout.Write(out)
	return err
}
