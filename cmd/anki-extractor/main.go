package main

import (
	"fmt"
	"os"

	"github.com/Jubliano-sama/anki-extractor/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
