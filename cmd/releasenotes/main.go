package main

import (
	"os"

	"github.com/ariel-frischer/releasenotes/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
