// Package main provides the gestcom command-line front-end.
package main

import (
	"os"

	"github.com/leapstack-labs/gestcom/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
