// CLI entry point for the enhanced search service.
package main

import (
	"os"

	"github.com/texttechlab/enhanced-search/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
