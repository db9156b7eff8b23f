// Package main provides the tableapp CLI.
package main

import "github.com/mesh-intelligence/tableapp/internal/cli"

func main() {
	cli.Execute()
}
