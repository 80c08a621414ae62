package main

import (
	"os"

	"github.com/arthur-debert/stowng/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
