// Package main provides the samwise CLI: it records task patches into a
// local log, allocates orders, and prints the derived views of the
// reconciled state.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "samwise:", err)
		os.Exit(exitUserError)
	}
}
