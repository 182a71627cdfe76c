// Command stress drives a wide-column database cluster at a configured
// rate using a named workload profile.
package main

import (
	"fmt"
	"os"

	"github.com/nimbusdb/cstress/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
