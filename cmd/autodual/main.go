package main

import (
	"os"

	"github.com/roach88/autodual/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(), os.Stderr))
}
