package main

import (
	"os"

	"github.com/goliatone/go-aspectmodel/cmd/aspectgen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
