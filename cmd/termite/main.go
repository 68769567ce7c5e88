// Command termite launches the t3d terminal model viewer with a single
// object file argument, running it in the current working directory and
// exiting with the viewer's exit code.
package main

import (
	"os"

	"termite/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
