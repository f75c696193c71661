package main

import (
	"fmt"
	"os"

	"github.com/jassielof/typm/internal/cli"
	"github.com/jassielof/typm/pkg/errors"
	"github.com/jassielof/typm/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.StatusLine(style.StatusError, fmt.Sprintf("Error: %v", err)))

		// Compiler failures carry the tool's output; surface it so the
		// user sees what typst complained about.
		if details := errors.GetErrorDetails(err); details != nil {
			if stdout, ok := details["stdout"].(string); ok && stdout != "" {
				fmt.Fprintf(os.Stderr, "Stdout:\n%s\n", stdout)
			}
			if stderr, ok := details["stderr"].(string); ok && stderr != "" {
				fmt.Fprintf(os.Stderr, "Stderr:\n%s\n", stderr)
			}
		}

		os.Exit(1)
	}
}
