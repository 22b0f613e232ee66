package main

import (
	"os"

	"sobriety/cmd/sobriety/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
