package main

import (
	"os"

	"github.com/encukou/trojan-linter/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
