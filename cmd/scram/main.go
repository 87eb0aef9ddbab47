// Command scram is the SCRAM core CLI (component N, SPEC_FULL.md §4.N):
// load, validate, and analyze MEF XML fault-tree documents.
package main

import "os"

func main() {
	os.Exit(run())
}

// run builds the root command, executes it, and translates whatever error
// comes back into one of the four exit codes §6 defines.
func run() int {
	cmd := newRootCmd()
	err := cmd.Execute()
	return exitCode(err)
}
