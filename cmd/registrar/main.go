// Command registrar manages students and courses from the command line.
package main

import (
	"os"

	"github.com/mesh-intelligence/registrar/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
