package main

import (
	"os"

	"github.com/oleg578/csvpretty/cmd/csvpretty/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
