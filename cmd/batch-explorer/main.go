// Command batch-explorer browses batch job execution metadata from the command line.
package main

import "os"

func main() {
	os.Exit(Execute()) //nolint:forbidigo // CLI must propagate command failure to the shell
}
