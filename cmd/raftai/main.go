// Command raftai runs the analysis engine, either as an HTTP service or
// as a one-shot CLI analysis.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
