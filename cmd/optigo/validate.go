package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/optigo-xyz/go-optigo/model"
)

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: optigo validate <problem.json>

Parse and validate a problem description without invoking the solver.

Checks performed:
  - JSON structure
  - Non-empty variable set, unique identifiers, recognized domains
  - Finite bounds, coefficients and right-hand sides
  - Bound consistency (lower <= upper)
  - Constraint and objective references to declared variables
  - Exactly one objective with a recognized direction
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

	desc, err := model.FromJSON(raw)
	if err != nil {
		return err
	}
	m, verr := model.Build(desc)
	if verr != nil {
		return fmt.Errorf("invalid description: %s", verr.Error())
	}

	kind := "LP"
	if m.HasIntegral() {
		kind = "MIP"
	}
	fmt.Printf("valid %s model: %d variables, %d constraints\n",
		kind, m.NumVars(), len(m.Constraints))
	return nil
}
