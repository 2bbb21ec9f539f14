package main

import (
	"fmt"
	"os"

	"github.com/Makepad-fr/tada/internal/cli"
)

func main() {
	code := cli.Execute(os.Args[1:], os.Stdout, os.Stderr)
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
