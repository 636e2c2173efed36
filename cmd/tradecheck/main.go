// Package main provides the tradecheck CLI.
package main

import "github.com/mesh-intelligence/tradecheck/internal/cli"

func main() {
	cli.Execute()
}
