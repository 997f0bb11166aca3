package main

import (
	"fmt"
	"os"

	"github.com/datalakehq/lakectl/cli"
	"github.com/datalakehq/lakectl/cli/helpers"
)

func main() {
	cmd := cli.RootCmd()
	if err := cmd.Execute(); err != nil {
		// Mode-aware handlers print their own output; errors that bypass
		// them (usage, flag parsing, config validation) surface here.
		if !helpers.IsReported(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
