// Command deliverai serves the campaign dashboard and exposes the recipient
// parser and the optimizer on the command line.
//
//	deliverai                      serve the dashboard (same as "serve")
//	deliverai parse recipients.txt print the valid recipients
//	deliverai optimize --recipients a@b.com --subject Hi --body-file body.md
package main

import (
	"context"
	"fmt"
	"os"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd(defaultDeps()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
