// Command dirscan reports immediate-child counts and sizes for every directory under a path.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dirscan/internal/cli"
)

// Will be set by the build process.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
