// biblecheck enforces an iOS design bible in CI.
//
// It scans a source tree for forbidden layout and API patterns, checks
// component usage, verifies that every screen is registered and traced, and
// gates pull requests on an updated compliance declaration.
package main

import (
	"context"
	"os"

	"github.com/designbible/biblecheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
