package main

import (
	"fmt"
	"os"
)

// Version information (set by ldflags during build).
var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, BoldRed("error:"), err)
		os.Exit(1)
	}
}
