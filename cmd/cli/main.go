package main

import (
	"os"

	"github.com/wanderlust-tours/wanderlust/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
