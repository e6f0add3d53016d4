// Package main provides the entry point for the tripdocs CLI.
package main

import (
	"github.com/tripdocs/tripdocs/internal/cli"
)

func main() {
	cli.Execute()
}
