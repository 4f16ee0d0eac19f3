package main

import (
	"fmt"
	"os"

	"github.com/guardrails/guardrails/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Commands silence cobra's own reporting, so this is the only
		// place the failure reaches the terminal.
		fmt.Fprintln(os.Stderr, "guardrails:", err)
		os.Exit(1)
	}
}
