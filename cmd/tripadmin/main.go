// Package main provides the tripadmin operator CLI.
package main

import (
	"os"

	"github.com/wanderlist/wanderlist/cmd/tripadmin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
