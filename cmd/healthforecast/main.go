package main

import (
	"os"

	"github.com/aouyang1/go-healthforecast/cmd/healthforecast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
