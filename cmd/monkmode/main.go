/*
main.go - Application entry point

PURPOSE:
  One binary for every MonkMode surface:
    serve    HTTP sync API over a document store
    tui      terminal client (Today, Log, Progress)
    mcp      MCP tools on stdio for AI agents
    status   print today's checklist and exit
    version  print the build version

CONFIGURATION:
  Defaults, then --config YAML, then MONKMODE_* env, then flags.
  See config/config.go.

EXAMPLES:
  # API on :5000 with the default SQLite file
  monkmode serve

  # API backed by MongoDB
  monkmode serve --store mongo

  # Terminal client against a running API
  monkmode tui --api http://localhost:5000

  # Terminal client on the local database, no server needed
  monkmode tui --local

SEE ALSO:
  - root.go: Command tree and shared setup
  - serve.go: HTTP server with graceful shutdown
*/
package main

import (
	"fmt"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
