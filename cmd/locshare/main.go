package main

import (
	"os"

	"locshare/cmd/locshare/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
