// Package main is the entry point for the rulesmcp server.
//
// rulesmcp serves the categorized rules of a markdown document, read from a
// local file or from GitHub, to MCP clients over stdio. See internal/cli for
// the available commands.
package main

import (
	"os"

	"rulesmcp/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
