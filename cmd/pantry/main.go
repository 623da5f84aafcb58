// Package main provides the pantry CLI: inspect and edit the fixture
// collections of a Pantry data directory from the command line.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
