// Package main is the phpns command.
package main

import (
	"os"

	"github.com/leapstack-labs/phpns/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
