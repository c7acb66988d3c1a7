// Command escrowctl simulates, inspects and serves a subscription escrow.
package main

import (
	"os"

	"github.com/xraph/escrow/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
