package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/jassielof/typm/internal/cli"
	"github.com/jassielof/typm/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "TYPM",
		Section: "1",
		Source:  "typm " + version.Version,
		Manual:  "typm manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
