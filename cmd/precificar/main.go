package main

import (
	"os"

	"github.com/scytherma/loginshp-sub000/cmd/precificar/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
