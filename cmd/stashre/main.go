// stashre synthesizes the shortest search patterns that pick out exactly one
// label from a catalog of look-alikes.
package main

import (
	"os"

	"github.com/corey/stashre/cmd/stashre/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
